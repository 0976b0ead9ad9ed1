package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/Klingon-tech/cosmwallet/internal/rpcclient"
	"github.com/Klingon-tech/cosmwallet/internal/storage"
	"github.com/Klingon-tech/cosmwallet/internal/wallet"
)

// openKeystore opens the Badger-backed keystore of the configured network.
// The caller must close the returned DB.
func (a *app) openKeystore() (*wallet.Keystore, storage.DB, error) {
	if err := os.MkdirAll(a.cfg.KeystoreDir(), 0700); err != nil {
		return nil, nil, fmt.Errorf("create keystore dir: %w", err)
	}
	db, err := storage.NewBadger(a.cfg.KeystoreDir())
	if err != nil {
		return nil, nil, fmt.Errorf("open keystore: %w", err)
	}
	return wallet.NewKeystore(db), db, nil
}

func (a *app) kdfParams() wallet.EncryptionParams {
	return wallet.EncryptionParams{
		Memory:      a.cfg.KDF.Memory,
		Iterations:  a.cfg.KDF.Iterations,
		Parallelism: a.cfg.KDF.Parallelism,
	}
}

func (a *app) rest() *rpcclient.REST {
	return rpcclient.NewRESTWithTimeout(a.cfg.Node.API, a.cfg.Node.Timeout)
}

func (a *app) rpc() *rpcclient.Client {
	return rpcclient.NewWithTimeout(a.cfg.Node.RPC, a.cfg.Node.Timeout)
}

func (a *app) waitOptions() rpcclient.WaitOptions {
	return rpcclient.WaitOptions{
		Interval:    a.cfg.Wait.Interval,
		MaxAttempts: a.cfg.Wait.MaxAttempts,
	}
}

// unlock decrypts the named wallet and recovers its HD wallet. The caller
// must call Zero on the result.
func (a *app) unlock(ks *wallet.Keystore, name string, password []byte) (*wallet.Wallet, error) {
	info, err := ks.Info(name)
	if err != nil {
		return nil, err
	}
	if info.Network != a.cfg.Network {
		return nil, fmt.Errorf("wallet %q belongs to %s, not %s", name, info.Network, a.cfg.Network)
	}
	mnemonic, err := ks.Load(name, password)
	if err != nil {
		return nil, err
	}
	return wallet.RecoverWallet(mnemonic, "")
}

// ── Password helper ─────────────────────────────────────────────────────

// passwordFile, when set, is read instead of prompting. Used for scripting.
var passwordFile string

// stdin is shared so secrets piped one per line are not lost to buffering.
var stdin = bufio.NewReader(os.Stdin)

func readPassword(prompt string) ([]byte, error) {
	if passwordFile != "" {
		data, err := os.ReadFile(passwordFile)
		if err != nil {
			return nil, fmt.Errorf("read password file: %w", err)
		}
		return []byte(strings.TrimRight(string(data), "\r\n")), nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return readLine()
	}

	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return password, nil
}

// readNewPassword prompts twice and requires both entries to match.
func readNewPassword() ([]byte, error) {
	password, err := readPassword("Enter password: ")
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	if len(password) == 0 {
		return nil, errors.New("password must not be empty")
	}
	if passwordFile != "" || !term.IsTerminal(int(os.Stdin.Fd())) {
		return password, nil
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	if string(password) != string(confirm) {
		return nil, errors.New("passwords do not match")
	}
	return password, nil
}

func readLine() ([]byte, error) {
	line, err := stdin.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// commandContext is cancelled on SIGINT or SIGTERM.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
