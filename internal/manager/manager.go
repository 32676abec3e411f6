// Package manager runs the interactive session: it reads menu choices and
// dispatches them to the cipher registry, the buffer and file storage.
package manager

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dyne/rotbuf/internal/buffer"
	"github.com/dyne/rotbuf/internal/cipher"
	"github.com/dyne/rotbuf/internal/history"
	"github.com/dyne/rotbuf/internal/log"
	"github.com/dyne/rotbuf/internal/menu"
	"github.com/dyne/rotbuf/internal/record"
	"github.com/dyne/rotbuf/internal/storage"
)

const (
	ChoiceEncrypt = iota + 1
	ChoiceDecrypt
	ChoiceDisplay
	ChoiceClear
	ChoiceSave
	ChoiceLoad
	ChoiceExit
)

type Options struct {
	Ciphers       *cipher.Registry
	Buffer        *buffer.Buffer
	Journal       history.Journal
	Menu          menu.Menu
	In            io.Reader
	Out           io.Writer
	Logger        *log.Logger
	DefaultCipher string
	DefaultMode   string
	// HideMenu skips printing the menu before each choice, for piped input.
	HideMenu bool
}

type Manager struct {
	ciphers       *cipher.Registry
	buffer        *buffer.Buffer
	journal       history.Journal
	menu          menu.Menu
	in            *bufio.Reader
	out           io.Writer
	logger        *log.Logger
	defaultCipher string
	defaultMode   string
	hideMenu      bool
	running       bool
	actions       map[int]func(ctx context.Context) error
}

func New(opts Options) *Manager {
	m := &Manager{
		ciphers:       opts.Ciphers,
		buffer:        opts.Buffer,
		journal:       opts.Journal,
		menu:          opts.Menu,
		out:           opts.Out,
		logger:        opts.Logger,
		defaultCipher: opts.DefaultCipher,
		defaultMode:   opts.DefaultMode,
		hideMenu:      opts.HideMenu,
		running:       true,
	}
	if m.ciphers == nil {
		m.ciphers = cipher.NewRegistry()
	}
	if m.buffer == nil {
		m.buffer = buffer.New()
	}
	if m.journal == nil {
		m.journal = history.Nop{}
	}
	if m.menu == nil {
		m.menu = menu.Main{}
	}
	in := opts.In
	if in == nil {
		in = os.Stdin
	}
	m.in = bufio.NewReader(in)
	if m.out == nil {
		m.out = os.Stdout
	}
	if m.logger == nil {
		m.logger = log.Discard()
	}
	m.actions = map[int]func(ctx context.Context) error{
		ChoiceEncrypt: m.EncryptText,
		ChoiceDecrypt: m.DecryptText,
		ChoiceDisplay: m.DisplayBuffer,
		ChoiceClear:   m.ClearBuffer,
		ChoiceSave:    m.SaveToFile,
		ChoiceLoad:    m.LoadFromFile,
		ChoiceExit:    m.Exit,
	}
	return m
}

func (m *Manager) Buffer() *buffer.Buffer { return m.buffer }

func (m *Manager) Running() bool { return m.running }

// Run loops until Exit is chosen or input ends. Failed actions are reported
// and the loop continues.
func (m *Manager) Run(ctx context.Context) error {
	for m.running {
		if !m.hideMenu {
			menu.Display(m.menu, m.out)
		}
		choice, err := menu.Choice(m.menu, m.in, m.out)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read choice: %w", err)
		}
		action, ok := m.actions[choice]
		if !ok {
			fmt.Fprintf(m.out, "Invalid choice: %d\n", choice)
			continue
		}
		m.logger.Debugf("menu choice %d", choice)
		if err := action(ctx); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			m.logger.Warnf("action %d: %v", choice, err)
		}
	}
	return nil
}

func (m *Manager) EncryptText(ctx context.Context) error {
	return m.cipherOperation(ctx, record.StatusEncrypted)
}

func (m *Manager) DecryptText(ctx context.Context) error {
	return m.cipherOperation(ctx, record.StatusDecrypted)
}

func (m *Manager) cipherOperation(ctx context.Context, status record.Status) error {
	verb := "encrypt"
	action := history.ActionEncrypt
	if status == record.StatusDecrypted {
		verb = "decrypt"
		action = history.ActionDecrypt
	}
	fmt.Fprintf(m.out, "\n=== %s text ===\n", strings.ToUpper(verb[:1])+verb[1:])

	text, err := m.prompt(fmt.Sprintf("Enter text to %s: ", verb))
	if err != nil {
		return err
	}
	rotType, err := m.prompt("Enter the cipher type: ")
	if err != nil {
		return err
	}
	rotType = strings.TrimSpace(rotType)
	if rotType == "" {
		rotType = m.defaultCipher
	}

	c, err := m.ciphers.Resolve(rotType)
	if err != nil {
		fmt.Fprintf(m.out, "Cipher error: %v\n", err)
		return nil
	}
	var result string
	if status == record.StatusEncrypted {
		result = c.Encrypt(text)
	} else {
		result = c.Decrypt(text)
	}
	m.buffer.Add(result, rotType, status)
	fmt.Fprintf(m.out, "Text %sed successfully: %s\n", verb, result)
	fmt.Fprintf(m.out, "Added to buffer with status '%s'\n", status)
	m.note(ctx, action, rotType, "")
	return nil
}

func (m *Manager) DisplayBuffer(context.Context) error {
	fmt.Fprintln(m.out, m.buffer.Render())
	return nil
}

func (m *Manager) ClearBuffer(ctx context.Context) error {
	m.buffer.Clear()
	fmt.Fprintln(m.out, "Buffer cleared.")
	m.note(ctx, history.ActionClear, "", "")
	return nil
}

func (m *Manager) SaveToFile(ctx context.Context) error {
	if m.buffer.Len() == 0 {
		fmt.Fprintln(m.out, "Buffer is empty. Nothing to save.")
		return nil
	}
	name, err := m.prompt("Enter a filename: ")
	if err != nil {
		return err
	}
	rawMode, err := m.prompt("Enter mode ('w' - write, 'a' - append): ")
	if err != nil {
		return err
	}
	rawMode = strings.TrimSpace(rawMode)
	if rawMode == "" {
		rawMode = m.defaultMode
	}
	mode, err := storage.ParseMode(rawMode)
	if errors.Is(err, storage.ErrInvalidMode) {
		fmt.Fprintln(m.out, "Invalid mode. Setting up to default 'append' mode.")
	}

	path, err := storage.Save(m.buffer.Records(), strings.TrimSpace(name), mode)
	switch {
	case errors.Is(err, storage.ErrFileNotFound):
		fmt.Fprintf(m.out, "File %s not found.\n", path)
		return nil
	case err != nil:
		fmt.Fprintf(m.out, "An error occurred while saving to file: %v\n", err)
		return nil
	}
	fmt.Fprintf(m.out, "Data successfully saved to %s\n", path)
	m.note(ctx, history.ActionSave, "", path)
	return nil
}

func (m *Manager) LoadFromFile(ctx context.Context) error {
	name, err := m.prompt("Enter a filename: ")
	if err != nil {
		return err
	}
	path := storage.Filename(strings.TrimSpace(name))
	records, err := storage.Load(path)
	switch {
	case errors.Is(err, storage.ErrFileNotFound):
		fmt.Fprintf(m.out, "File %s not found.\n", path)
		return nil
	case errors.Is(err, storage.ErrInvalidFormat):
		fmt.Fprintf(m.out, "File %s is not valid JSON.\n", path)
		return nil
	case err != nil:
		fmt.Fprintf(m.out, "An error occurred while loading from file: %v\n", err)
		return nil
	}
	if err := m.buffer.AddBulk(records); err != nil {
		fmt.Fprintf(m.out, "An error occurred while loading from file: %v\n", err)
		return nil
	}
	fmt.Fprintf(m.out, "Data successfully loaded from %s.\n", path)
	m.note(ctx, history.ActionLoad, "", path)
	return nil
}

func (m *Manager) Exit(context.Context) error {
	fmt.Fprintln(m.out, "\nExiting application. Goodbye!")
	m.running = false
	return nil
}

// prompt reads one line with the trailing newline removed. A final line
// without a newline is still returned.
func (m *Manager) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	line, err := m.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (m *Manager) note(ctx context.Context, action history.Action, rotType, detail string) {
	if _, err := m.journal.Record(ctx, action, rotType, detail); err != nil {
		m.logger.Warnf("history: %v", err)
	}
}
