package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Klingon-tech/cosmwallet/internal/rpcclient"
	"github.com/Klingon-tech/cosmwallet/internal/wallet"
	"github.com/Klingon-tech/cosmwallet/pkg/types"
)

func (a *app) addressCmd() *cobra.Command {
	var index uint32
	cmd := &cobra.Command{
		Use:   "address <wallet>",
		Short: "Print the address of a wallet account",
		Long: `Print the address at m/44'/<coin_type>'/0'/0/<index> of a stored wallet.

Addresses already in the wallet's address book are printed without a
password. Others are derived, which needs the wallet password.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := a.walletAddress(args[0], index)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), addr)
			return nil
		},
	}
	cmd.Flags().Uint32Var(&index, "index", 0, "Address index")
	return cmd
}

// walletAddress returns the address of index, from the address book when it
// is recorded there.
func (a *app) walletAddress(name string, index uint32) (string, error) {
	ks, db, err := a.openKeystore()
	if err != nil {
		return "", err
	}
	defer db.Close()

	accounts, err := ks.ListAccounts(name)
	if err != nil {
		return "", err
	}
	for _, acct := range accounts {
		if acct.Index == index {
			return acct.Address, nil
		}
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	defer zeroBytes(password)

	w, err := a.unlock(ks, name, password)
	if err != nil {
		return "", err
	}
	defer w.Zero()

	entry, err := a.accountEntry(w, index)
	if err != nil {
		return "", err
	}
	return entry.Address, nil
}

// resolveAddress accepts a bech32 address or a stored wallet name.
func (a *app) resolveAddress(arg string, index uint32) (string, error) {
	if types.ValidateBech32(arg, a.network.HRP) == nil {
		return arg, nil
	}
	if wallet.ValidateName(arg) != nil {
		return "", fmt.Errorf("%q is neither a %s address nor a wallet name", arg, a.network.HRP)
	}
	return a.walletAddress(arg, index)
}

func (a *app) accountCmd() *cobra.Command {
	var index uint32
	cmd := &cobra.Command{
		Use:   "account <address|wallet>",
		Short: "Show the account number and sequence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := a.resolveAddress(args[0], index)
			if err != nil {
				return err
			}

			ctx, cancel := commandContext()
			defer cancel()

			acct, err := a.rest().QueryAccount(ctx, addr)
			if errors.Is(err, rpcclient.ErrAccountNotFound) {
				return fmt.Errorf("account %s has no on-chain state yet (send it funds first)", addr)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Address:        %s\n", acct.Address)
			fmt.Fprintf(out, "Type:           %s\n", acct.Type)
			fmt.Fprintf(out, "Account number: %d\n", acct.AccountNumber)
			fmt.Fprintf(out, "Sequence:       %d\n", acct.Sequence)
			if len(acct.PubKey) > 0 {
				fmt.Fprintf(out, "Public key:     %x\n", acct.PubKey)
			}
			return nil
		},
	}
	cmd.Flags().Uint32Var(&index, "index", 0, "Address index when a wallet name is given")
	return cmd
}

func (a *app) balanceCmd() *cobra.Command {
	var (
		index uint32
		denom string
	)
	cmd := &cobra.Command{
		Use:   "balance <address|wallet>",
		Short: "Show the balance of one denomination",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := a.resolveAddress(args[0], index)
			if err != nil {
				return err
			}
			if denom == "" {
				denom = a.cfg.Fee.Denom
			}

			ctx, cancel := commandContext()
			defer cancel()

			bal, err := a.rest().QueryBalance(ctx, addr, denom, a.cfg.Node.BalanceAPI)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", bal.Amount.String(), bal.Denom)
			return nil
		},
	}
	cmd.Flags().Uint32Var(&index, "index", 0, "Address index when a wallet name is given")
	cmd.Flags().StringVar(&denom, "denom", "", "Denomination (default: fee.denom)")
	return cmd
}
