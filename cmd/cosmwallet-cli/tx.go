package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	klog "github.com/Klingon-tech/cosmwallet/internal/log"
	"github.com/Klingon-tech/cosmwallet/internal/rpcclient"
	"github.com/Klingon-tech/cosmwallet/internal/wallet"
	"github.com/Klingon-tech/cosmwallet/pkg/crypto"
	"github.com/Klingon-tech/cosmwallet/pkg/tx"
	"github.com/Klingon-tech/cosmwallet/pkg/types"
)

// txFlags are shared by every command that signs a transaction.
type txFlags struct {
	wallet        string
	index         uint32
	denom         string
	memo          string
	gas           uint64
	fee           uint64
	feeDenom      string
	accountNumber uint64
	sequence      uint64
	timeoutHeight uint64
	broadcast     bool
	wait          bool

	cmd *cobra.Command
}

func addTxFlags(cmd *cobra.Command) *txFlags {
	f := &txFlags{cmd: cmd}
	fs := cmd.Flags()
	fs.StringVarP(&f.wallet, "wallet", "w", "", "Signing wallet name (required)")
	fs.Uint32Var(&f.index, "index", 0, "Signing address index")
	fs.StringVar(&f.denom, "denom", "", "Amount denomination (default: fee.denom)")
	fs.StringVar(&f.memo, "memo", "", "Transaction memo")
	fs.Uint64Var(&f.gas, "gas", 0, "Gas limit (default: fee.gas)")
	fs.Uint64Var(&f.fee, "fee", 0, "Fee amount (default: fee.amount)")
	fs.StringVar(&f.feeDenom, "fee-denom", "", "Fee denomination (default: fee.denom)")
	fs.Uint64Var(&f.accountNumber, "account-number", 0, "Account number (skips the account query when set with --sequence)")
	fs.Uint64Var(&f.sequence, "sequence", 0, "Account sequence (skips the account query when set with --account-number)")
	fs.Uint64Var(&f.timeoutHeight, "timeout-height", 0, "Block height after which the tx is invalid")
	fs.BoolVar(&f.broadcast, "broadcast", false, "Broadcast the signed tx instead of printing it")
	fs.BoolVar(&f.wait, "wait", false, "With --broadcast, wait for block inclusion")
	_ = cmd.MarkFlagRequired("wallet")
	return f
}

// offline reports whether the account metadata was pinned on the command line.
func (f *txFlags) offline() bool {
	fs := f.cmd.Flags()
	return fs.Changed("account-number") && fs.Changed("sequence")
}

// checkPinned rejects metadata pinned halfway: a queried value would
// silently replace the one given.
func (f *txFlags) checkPinned() error {
	fs := f.cmd.Flags()
	if fs.Changed("account-number") != fs.Changed("sequence") {
		return errors.New("--account-number and --sequence must be given together")
	}
	return nil
}

func (a *app) amountDenom(f *txFlags) string {
	if f.denom != "" {
		return f.denom
	}
	return a.cfg.Fee.Denom
}

// info builds the tx info from config defaults and flag overrides.
func (a *app) info(f *txFlags, accountNumber, sequence uint64) tx.Info {
	info := tx.NewInfo(a.network, a.cfg.Node.ChainID, accountNumber, sequence)
	info.GasLimit = a.cfg.Fee.GasLimit
	info.FeeAmount = a.cfg.Fee.Amount
	info.FeeDenom = a.cfg.Fee.Denom
	if f.gas != 0 {
		info.GasLimit = f.gas
	}
	if f.cmd.Flags().Changed("fee") {
		info.FeeAmount = f.fee
	}
	if f.feeDenom != "" {
		info.FeeDenom = f.feeDenom
	}
	info.Memo = f.memo
	info.TimeoutHeight = f.timeoutHeight
	return info
}

func (a *app) checkValidator(addr string) error {
	if err := types.ValidateBech32(addr, a.network.ValidatorHRP); err != nil {
		return types.Errorf(types.StageMessage, types.ErrInvalidMessage, "validator: %v", err)
	}
	return nil
}

func (a *app) sendCmd() *cobra.Command {
	var f *txFlags
	cmd := &cobra.Command{
		Use:   "send <to> <amount>",
		Short: "Send coins to an address",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := types.ValidateBech32(args[0], a.network.HRP); err != nil {
				return types.Errorf(types.StageMessage, types.ErrInvalidMessage, "recipient: %v", err)
			}
			amount, err := types.ParseCoinAmount(args[1])
			if err != nil {
				return types.Errorf(types.StageMessage, types.ErrInvalidAmount, "%v", err)
			}
			msg, err := tx.NewBankSend(args[0], amount, a.amountDenom(f))
			if err != nil {
				return err
			}
			return a.signAndSubmit(cmd.OutOrStdout(), f, msg)
		},
	}
	f = addTxFlags(cmd)
	return cmd
}

func (a *app) delegateCmd() *cobra.Command {
	var f *txFlags
	cmd := &cobra.Command{
		Use:   "delegate <validator> <amount>",
		Short: "Delegate coins to a validator",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.checkValidator(args[0]); err != nil {
				return err
			}
			amount, err := types.ParseCoinAmount(args[1])
			if err != nil {
				return types.Errorf(types.StageMessage, types.ErrInvalidAmount, "%v", err)
			}
			msg, err := tx.NewDelegate(args[0], amount, a.amountDenom(f))
			if err != nil {
				return err
			}
			return a.signAndSubmit(cmd.OutOrStdout(), f, msg)
		},
	}
	f = addTxFlags(cmd)
	return cmd
}

func (a *app) unbondCmd() *cobra.Command {
	var f *txFlags
	cmd := &cobra.Command{
		Use:     "unbond <validator> <amount>",
		Aliases: []string{"undelegate"},
		Short:   "Undelegate coins from a validator",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.checkValidator(args[0]); err != nil {
				return err
			}
			amount, err := types.ParseCoinAmount(args[1])
			if err != nil {
				return types.Errorf(types.StageMessage, types.ErrInvalidAmount, "%v", err)
			}
			msg, err := tx.NewUndelegate(args[0], amount, a.amountDenom(f))
			if err != nil {
				return err
			}
			return a.signAndSubmit(cmd.OutOrStdout(), f, msg)
		},
	}
	f = addTxFlags(cmd)
	return cmd
}

func (a *app) redelegateCmd() *cobra.Command {
	var f *txFlags
	cmd := &cobra.Command{
		Use:   "redelegate <src-validator> <dst-validator> <amount>",
		Short: "Move a delegation between validators",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, v := range args[:2] {
				if err := a.checkValidator(v); err != nil {
					return err
				}
			}
			amount, err := types.ParseCoinAmount(args[2])
			if err != nil {
				return types.Errorf(types.StageMessage, types.ErrInvalidAmount, "%v", err)
			}
			msg, err := tx.NewBeginRedelegate(args[0], args[1], amount, a.amountDenom(f))
			if err != nil {
				return err
			}
			return a.signAndSubmit(cmd.OutOrStdout(), f, msg)
		},
	}
	f = addTxFlags(cmd)
	return cmd
}

// signAndSubmit unlocks the wallet, signs msg and either prints the signed
// tx or broadcasts it. A broadcast rejected for a stale sequence is signed
// again once with fresh account metadata.
func (a *app) signAndSubmit(out io.Writer, f *txFlags, msg tx.Message) error {
	if err := f.checkPinned(); err != nil {
		return err
	}
	ks, db, err := a.openKeystore()
	if err != nil {
		return err
	}
	password, err := readPassword("Password: ")
	if err != nil {
		db.Close()
		return fmt.Errorf("read password: %w", err)
	}
	w, err := a.unlock(ks, f.wallet, password)
	zeroBytes(password)
	db.Close()
	if err != nil {
		return err
	}
	defer w.Zero()

	key, err := w.DeriveKey(wallet.Bip44Path(a.network.CoinType, 0, wallet.ChangeExternal, f.index))
	if err != nil {
		return err
	}
	priv, err := key.Signer()
	if err != nil {
		return err
	}
	defer priv.Zero()

	signer, err := crypto.EncodeAddress(priv.PublicKey(), a.network.HRP)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	sign := func(accountNumber, sequence uint64) (tx.SignedTx, error) {
		signed, err := tx.NewBuilder(a.info(f, accountNumber, sequence)).AddMessage(msg).Sign(priv)
		if err != nil {
			return nil, err
		}
		klog.Signer.Debug().
			Str("signer", signer).
			Str("type", msg.TypeURL()).
			Uint64("account_number", accountNumber).
			Uint64("sequence", sequence).
			Str("hash", signed.Hash().String()).
			Msg("Transaction signed")
		return signed, nil
	}

	accountNumber, sequence := f.accountNumber, f.sequence
	if !f.offline() {
		acct, err := a.rest().QueryAccount(ctx, signer)
		if err != nil {
			return fmt.Errorf("query signer account: %w", err)
		}
		accountNumber, sequence = acct.AccountNumber, acct.Sequence
	}

	signed, err := sign(accountNumber, sequence)
	if err != nil {
		return err
	}

	if !f.broadcast {
		fmt.Fprintln(out, signed.Hex())
		return nil
	}

	client := a.rpc()
	_, err = client.BroadcastTx(ctx, signed)
	if rpcclient.IsSequenceMismatch(err) && !f.offline() {
		klog.CLI.Warn().Uint64("sequence", sequence).Msg("Sequence mismatch, refreshing account")
		acct, qerr := a.rest().QueryAccount(ctx, signer)
		if qerr != nil {
			return fmt.Errorf("refresh signer account: %w", qerr)
		}
		if signed, err = sign(acct.AccountNumber, acct.Sequence); err != nil {
			return err
		}
		_, err = client.BroadcastTx(ctx, signed)
	}
	if err != nil {
		return err
	}

	return a.report(ctx, out, client, signed.Hash(), f.wait)
}

// report prints the tx hash and, when asked, waits for inclusion.
func (a *app) report(ctx context.Context, out io.Writer, client *rpcclient.Client, hash types.Hash, wait bool) error {
	fmt.Fprintf(out, "TxHash: %s\n", hash)
	if !wait {
		return nil
	}
	res, err := client.WaitForTx(ctx, hash, a.waitOptions())
	if err != nil {
		var failed *rpcclient.TxFailedError
		if errors.As(err, &failed) {
			fmt.Fprintf(out, "Height: %d\n", failed.Height)
		}
		return err
	}
	fmt.Fprintf(out, "Height: %d\n", res.Height)
	fmt.Fprintf(out, "Gas used: %d / %d\n", res.TxResult.GasUsed, res.TxResult.GasWanted)
	return nil
}
