package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dyne/rotbuf/internal/buffer"
	"github.com/dyne/rotbuf/internal/cipher"
	"github.com/dyne/rotbuf/internal/config"
	"github.com/dyne/rotbuf/internal/history"
	"github.com/dyne/rotbuf/internal/inspect"
	"github.com/dyne/rotbuf/internal/log"
	"github.com/dyne/rotbuf/internal/manager"
	"github.com/dyne/rotbuf/internal/menu"
)

type env struct {
	cfg     *config.Config
	logger  *log.Logger
	ciphers *cipher.Registry
}

func setup(cmd *cobra.Command, rootOpts *globalOptions) (*env, error) {
	cfg, err := config.Load(rootOpts.Config)
	if err != nil {
		return nil, err
	}
	if rootOpts.History != "" {
		cfg.History = rootOpts.History
	}
	level := log.LevelInfo
	if rootOpts.Verbose {
		level = log.LevelDebug
	}
	logger := log.New(level, cmd.ErrOrStderr())
	reg := cipher.NewRegistry()
	plugins := append(append([]string{}, cfg.Plugins...), rootOpts.Plugins...)
	if err := cipher.LoadPlugins(reg, plugins); err != nil {
		return nil, err
	}
	if len(plugins) > 0 {
		logger.Infof("loaded plugins from %s", strings.Join(plugins, ", "))
	}
	logger.Debugf("ciphers: %s", strings.Join(reg.Names(), ", "))
	return &env{cfg: cfg, logger: logger, ciphers: reg}, nil
}

func openJournal(ctx context.Context, e *env) (history.Journal, error) {
	if e.cfg.History == "" {
		return history.Nop{}, nil
	}
	s, err := history.Open(ctx, e.cfg.History)
	if err != nil {
		return nil, err
	}
	e.logger.Debugf("history: %s", e.cfg.History)
	return s, nil
}

func sessionCmd(rootOpts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Start the interactive menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, rootOpts)
			if err != nil {
				return err
			}
			journal, err := openJournal(cmd.Context(), e)
			if err != nil {
				return err
			}
			defer journal.Close()
			m := manager.New(manager.Options{
				Ciphers:       e.ciphers,
				Buffer:        buffer.New(),
				Journal:       journal,
				Menu:          menu.Main{},
				In:            cmd.InOrStdin(),
				Out:           cmd.OutOrStdout(),
				Logger:        e.logger,
				DefaultCipher: e.cfg.DefaultCipher,
				DefaultMode:   e.cfg.SaveMode,
				HideMenu:      !isTerminal(cmd.InOrStdin()),
			})
			return m.Run(cmd.Context())
		},
	}
}

func transformCmd(rootOpts *globalOptions, decrypt bool) *cobra.Command {
	var cipherName string
	cmdName := "encrypt"
	cmdShort := "Encrypt text given as arguments or on stdin"
	if decrypt {
		cmdName = "decrypt"
		cmdShort = "Decrypt text given as arguments or on stdin"
	}
	cmd := &cobra.Command{
		Use:   cmdName + " [text...]",
		Short: cmdShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, rootOpts)
			if err != nil {
				return err
			}
			if cipherName == "" {
				cipherName = e.cfg.DefaultCipher
			}
			c, err := e.ciphers.Resolve(cipherName)
			if err != nil {
				return err
			}
			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = strings.TrimRight(string(data), "\r\n")
			}
			out := c.Encrypt(text)
			action := history.ActionEncrypt
			if decrypt {
				out = c.Decrypt(text)
				action = history.ActionDecrypt
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)

			journal, err := openJournal(cmd.Context(), e)
			if err != nil {
				return err
			}
			defer journal.Close()
			if _, err := journal.Record(cmd.Context(), action, c.Name(), ""); err != nil {
				e.logger.Warnf("history: %v", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cipherName, "cipher", "", "cipher type (rot13, rot47, or a plugin cipher)")
	return cmd
}

func ciphersCmd(rootOpts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ciphers",
		Short: "List available cipher types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, rootOpts)
			if err != nil {
				return err
			}
			for _, name := range e.ciphers.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func inspectCmd(rootOpts *globalOptions) *cobra.Command {
	var inPath string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize a saved buffer file",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, rootOpts)
			if err != nil {
				return err
			}
			return inspect.Run(inPath, cmd.OutOrStdout(), e.logger)
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "buffer file")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func historyCmd(rootOpts *globalOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded actions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, rootOpts)
			if err != nil {
				return err
			}
			if e.cfg.History == "" {
				return fmt.Errorf("no history file configured (use --history or the config file)")
			}
			journal, err := openJournal(cmd.Context(), e)
			if err != nil {
				return err
			}
			defer journal.Close()
			entries, err := journal.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, en := range entries {
				fmt.Fprintf(w, "%s  %-7s  %-6s  %s\n", en.CreatedAt.Local().Format("2006-01-02 15:04:05"), en.Action, en.RotType, en.Detail)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of entries (0 for all)")
	return cmd
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
