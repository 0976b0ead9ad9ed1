package main

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Klingon-tech/cosmwallet/pkg/tx"
	"github.com/Klingon-tech/cosmwallet/pkg/types"
)

// parseRawTx accepts a signed tx as hex or standard base64.
func parseRawTx(s string) (tx.SignedTx, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty transaction")
	}
	if b, err := hex.DecodeString(strings.TrimPrefix(s, "0x")); err == nil {
		return tx.SignedTx(b), nil
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.New("transaction is neither hex nor base64")
	}
	return tx.SignedTx(b), nil
}

func (a *app) broadcastCmd() *cobra.Command {
	var wait bool
	cmd := &cobra.Command{
		Use:   "broadcast <hex|base64>",
		Short: "Broadcast a signed transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signed, err := parseRawTx(args[0])
			if err != nil {
				return err
			}
			// Refuse bytes this tool could not have produced.
			if _, err := tx.Decode(signed); err != nil {
				return err
			}

			ctx, cancel := commandContext()
			defer cancel()

			client := a.rpc()
			if _, err := client.BroadcastTx(ctx, signed); err != nil {
				return err
			}
			return a.report(ctx, cmd.OutOrStdout(), client, signed.Hash(), wait)
		},
	}
	cmd.Flags().BoolVar(&wait, "wait", false, "Wait for block inclusion")
	return cmd
}

type messageView struct {
	Type         string `json:"@type"`
	To           string `json:"to_address,omitempty"`
	Validator    string `json:"validator_address,omitempty"`
	SrcValidator string `json:"validator_src_address,omitempty"`
	DstValidator string `json:"validator_dst_address,omitempty"`
	Amount       string `json:"amount"`
}

type txView struct {
	Hash          string        `json:"hash"`
	Signer        string        `json:"signer"`
	Messages      []messageView `json:"messages"`
	Memo          string        `json:"memo,omitempty"`
	TimeoutHeight uint64        `json:"timeout_height,omitempty"`
	PubKey        string        `json:"public_key"`
	Sequence      uint64        `json:"sequence"`
	Fee           []string      `json:"fee"`
	GasLimit      uint64        `json:"gas_limit"`
	Signature     string        `json:"signature"`
	Verified      *bool         `json:"verified,omitempty"`
}

func newMessageView(m tx.Message) messageView {
	v := messageView{Type: m.TypeURL()}
	switch m := m.(type) {
	case tx.BankSend:
		v.To, v.Amount = m.To, m.Amount.String()
	case tx.Delegate:
		v.Validator, v.Amount = m.Validator, m.Amount.String()
	case tx.Undelegate:
		v.Validator, v.Amount = m.Validator, m.Amount.String()
	case tx.BeginRedelegate:
		v.SrcValidator, v.DstValidator, v.Amount = m.SrcValidator, m.DstValidator, m.Amount.String()
	}
	return v
}

func newTxView(signed tx.SignedTx, d *tx.DecodedTx) txView {
	v := txView{
		Hash:          signed.Hash().String(),
		Signer:        d.Signer,
		Memo:          d.Memo,
		TimeoutHeight: d.TimeoutHeight,
		PubKey:        hex.EncodeToString(d.PubKey),
		Sequence:      d.Sequence,
		GasLimit:      d.GasLimit,
	}
	for _, m := range d.Messages {
		v.Messages = append(v.Messages, newMessageView(m))
	}
	for _, c := range d.Fee {
		v.Fee = append(v.Fee, c.String())
	}
	if len(d.Signatures) > 0 {
		v.Signature = hex.EncodeToString(d.Signatures[0])
	}
	return v
}

func (a *app) decodeCmd() *cobra.Command {
	var (
		verify        bool
		accountNumber uint64
	)
	cmd := &cobra.Command{
		Use:   "decode <hex|base64>",
		Short: "Decode a signed transaction to JSON",
		Long: `Decode a signed transaction to JSON.

With --verify the signature is checked against the configured chain ID and
the given --account-number.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signed, err := parseRawTx(args[0])
			if err != nil {
				return err
			}
			d, err := tx.Decode(signed)
			if err != nil {
				return err
			}

			view := newTxView(signed, d)
			if verify {
				err := d.VerifySignature(a.cfg.Node.ChainID, accountNumber)
				ok := err == nil
				view.Verified = &ok
				if err != nil {
					defer fmt.Fprintf(cmd.ErrOrStderr(), "Verification failed: %v\n", err)
				}
			}
			if hrp, _, err := types.ParseBech32(d.Signer); err == nil && hrp != a.network.HRP {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: signer prefix %q is not %q\n", hrp, a.network.HRP)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(view)
		},
	}
	cmd.Flags().BoolVar(&verify, "verify", false, "Verify the signature")
	cmd.Flags().Uint64Var(&accountNumber, "account-number", 0, "Account number the tx was signed for")
	return cmd
}
