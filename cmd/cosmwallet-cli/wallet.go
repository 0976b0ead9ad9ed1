package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	klog "github.com/Klingon-tech/cosmwallet/internal/log"
	"github.com/Klingon-tech/cosmwallet/internal/wallet"
)

func (a *app) walletCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Manage encrypted wallets in the keystore",
	}
	cmd.AddCommand(
		a.walletCreateCmd(),
		a.walletImportCmd(),
		a.walletListCmd(),
		a.walletAddressCmd(),
		a.walletNewAddressCmd(),
		a.walletDeleteCmd(),
	)
	return cmd
}

func (a *app) walletCreateCmd() *cobra.Command {
	var words int
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Generate a new mnemonic and store it encrypted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mnemonic, err := wallet.GenerateMnemonic(words)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Mnemonic (write this down!):")
			fmt.Fprintf(out, "  %s\n\n", mnemonic)

			return a.storeWallet(cmd, args[0], mnemonic)
		},
	}
	cmd.Flags().IntVar(&words, "words", wallet.DefaultMnemonicWords, "Mnemonic length: 12, 15, 18, 21 or 24")
	return cmd
}

func (a *app) walletImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <name>",
		Short: "Store an existing mnemonic encrypted",
		Long: `Store an existing BIP-39 mnemonic encrypted.

The mnemonic is read from the terminal without echo, or as the first line of
stdin when stdin is not a terminal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mnemonic, err := readMnemonic()
			if err != nil {
				return err
			}
			// Reject a bad mnemonic before asking for a password.
			seed, err := wallet.SeedFromMnemonic(mnemonic, "")
			if err != nil {
				return err
			}
			zeroBytes(seed)
			return a.storeWallet(cmd, args[0], wallet.NormalizeMnemonic(mnemonic))
		},
	}
	return cmd
}

func readMnemonic() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := readLine()
		return string(line), err
	}
	fmt.Fprint(os.Stderr, "Enter mnemonic: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// storeWallet encrypts mnemonic under name and records the default address.
func (a *app) storeWallet(cmd *cobra.Command, name, mnemonic string) error {
	if err := wallet.ValidateName(name); err != nil {
		return err
	}

	password, err := readNewPassword()
	if err != nil {
		return err
	}
	defer zeroBytes(password)

	w, err := wallet.RecoverWallet(mnemonic, "")
	if err != nil {
		return err
	}
	defer w.Zero()

	entry, err := a.accountEntry(w, 0)
	if err != nil {
		return err
	}

	ks, db, err := a.openKeystore()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := ks.Create(name, mnemonic, a.cfg.Network, password, a.kdfParams()); err != nil {
		return fmt.Errorf("create wallet: %w", err)
	}
	if err := ks.AddAccount(name, entry); err != nil {
		return fmt.Errorf("add account: %w", err)
	}

	klog.CLI.Info().Str("wallet", name).Str("address", entry.Address).Msg("Wallet stored")
	fmt.Fprintf(cmd.OutOrStdout(), "Wallet created: %s\n", name)
	fmt.Fprintf(cmd.OutOrStdout(), "Address: %s\n", entry.Address)
	return nil
}

// accountEntry derives the address book entry for index on the configured network.
func (a *app) accountEntry(w *wallet.Wallet, index uint32) (wallet.AccountEntry, error) {
	path := wallet.Bip44Path(a.network.CoinType, 0, wallet.ChangeExternal, index)
	key, err := w.DeriveKey(path)
	if err != nil {
		return wallet.AccountEntry{}, err
	}
	addr, err := key.Bech32Address(a.network.HRP)
	if err != nil {
		return wallet.AccountEntry{}, err
	}
	return wallet.AccountEntry{
		Index:   index,
		Name:    fmt.Sprintf("Account %d", index),
		Path:    path.String(),
		Address: addr,
	}, nil
}

func (a *app) walletListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored wallets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ks, db, err := a.openKeystore()
			if err != nil {
				return err
			}
			defer db.Close()

			names, err := ks.List()
			if err != nil {
				return fmt.Errorf("list wallets: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(names) == 0 {
				fmt.Fprintln(out, "No wallets found.")
				return nil
			}
			for _, name := range names {
				info, err := ks.Info(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%-20s %s  created %s\n", name, info.Network, info.CreatedAt.Format("2006-01-02"))
			}
			return nil
		},
	}
}

func (a *app) walletAddressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "addresses <name>",
		Short: "List the addresses recorded for a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, db, err := a.openKeystore()
			if err != nil {
				return err
			}
			defer db.Close()

			accounts, err := ks.ListAccounts(args[0])
			if err != nil {
				return fmt.Errorf("list accounts: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(accounts) == 0 {
				fmt.Fprintln(out, "No addresses found.")
				return nil
			}
			for _, acct := range accounts {
				fmt.Fprintf(out, "  [%d] %s  %s\n", acct.Index, acct.Address, acct.Path)
			}
			return nil
		},
	}
}

func (a *app) walletNewAddressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new-address <name>",
		Short: "Derive and record the next receive address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			ks, db, err := a.openKeystore()
			if err != nil {
				return err
			}
			defer db.Close()

			info, err := ks.Info(name)
			if err != nil {
				return err
			}
			password, err := readPassword("Password: ")
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			defer zeroBytes(password)

			w, err := a.unlock(ks, name, password)
			if err != nil {
				return err
			}
			defer w.Zero()

			entry, err := a.accountEntry(w, info.NextIndex)
			if err != nil {
				return err
			}
			if err := ks.AddAccount(name, entry); err != nil {
				return fmt.Errorf("add account: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[%d] %s\n", entry.Index, entry.Address)
			return nil
		},
	}
}

func (a *app) walletDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a wallet and its address book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !yes {
				fmt.Fprintf(os.Stderr, "Delete wallet %q? The mnemonic cannot be recovered from the keystore afterwards. [y/N] ", name)
				answer, err := readLine()
				if err != nil {
					return err
				}
				if !strings.EqualFold(strings.TrimSpace(string(answer)), "y") {
					return errors.New("aborted")
				}
			}

			ks, db, err := a.openKeystore()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := ks.Delete(name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wallet deleted: %s\n", name)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
