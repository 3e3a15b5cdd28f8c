// Command runas logs a Windows account on and runs work under its identity.
//
// Usage:
//
//	runas -user CORP\alice -path \\fileserver\share
//	runas -user alice@corp.example -logon-type network -cmd "whoami /all"
//	runas -config profile.yaml -loglevel debug
//
// The password is taken from -pass, then IMPERSONATE_PASSWORD, then the
// profile, and is otherwise prompted for without echo.
//
// Only the calling thread impersonates the account. A process started with
// -cmd is created from the process's primary token and so runs as the
// caller; it is useful for comparing the two identities, not for running a
// program as the account.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/smnsjas/go-impersonate/impersonate"
	"github.com/smnsjas/go-impersonate/internal/log"
	"github.com/smnsjas/go-impersonate/logon"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		fv         flagValues
		cmdLine    string
		privileges string
		configPath string
	)
	flag.StringVar(&fv.user, "user", "", "Account to log on: user, DOMAIN\\user or user@domain")
	flag.StringVar(&fv.domain, "domain", "", "Domain, when not part of -user (\".\" for the local machine)")
	flag.StringVar(&fv.password, "pass", "", "Password (prefer "+passwordEnv+" or the prompt)")
	flag.StringVar(&fv.logonType, "logon-type", "", "Logon type: interactive, network, batch, service, unlock, network-cleartext, new-credentials")
	flag.StringVar(&fv.provider, "provider", "", "Logon provider: default, ntlm, negotiate")
	flag.StringVar(&fv.path, "path", "", "Directory to list under the identity")
	flag.IntVar(&fv.parallel, "parallel", 4, "Max concurrent stat calls while listing -path")
	flag.StringVar(&cmdLine, "cmd", "", "Command to run after listing; it gets the process token, not the logged-on account")
	flag.StringVar(&privileges, "privilege", "", "Comma-separated process privileges to enable first (e.g. SeTcbPrivilege)")
	flag.StringVar(&configPath, "config", "", "YAML profile file")
	flag.StringVar(&fv.logLevel, "loglevel", "", "Log level: debug, info, warn, error (empty = no logging)")
	flag.StringVar(&fv.logFile, "logfile", "", "Write logs to a rotating file instead of stderr")
	flag.BoolVar(&fv.logJSON, "logjson", false, "Emit JSON log records")
	flag.Parse()

	fv.set = map[string]bool{}
	flag.Visit(func(f *flag.Flag) { fv.set[f.Name] = true })
	fv.command = strings.Fields(cmdLine)
	fv.privileges = splitList(privileges)

	p, err := loadProfile(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 2
	}
	cfg, err := merge(fv, p, os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		flag.Usage()
		return 2
	}

	logger, closer, err := log.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 2
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := execute(ctx, cfg, logger); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", describe(err))
		return 1
	}
	return 0
}

func execute(ctx context.Context, cfg *config, logger *slog.Logger) error {
	if len(cfg.Privileges) > 0 {
		if err := enablePrivileges(cfg.Privileges); err != nil {
			return fmt.Errorf("enable privileges: %w", err)
		}
		logger.Info("privileges enabled", "privileges", cfg.Privileges)
	}

	creds, release, err := resolveCredentials(cfg)
	if err != nil {
		return err
	}
	defer release()

	if sid, err := lookupSID(creds.Identifier().Qualified()); err == nil {
		fmt.Printf("Account:  %s (%s)\n", creds.Identifier().Qualified(), sid)
	} else {
		logger.Debug("lookup account SID", "account", creds.String(), "error", err)
		fmt.Printf("Account:  %s\n", creds.Identifier().Qualified())
	}

	acq := logon.NewAcquirer(logon.WithLogger(logger))
	h, err := acq.Acquire(ctx, creds, cfg.Params)
	if err != nil {
		return err
	}
	defer func() {
		if err := h.Close(); err != nil {
			logger.Warn("close token", "error", err)
		}
	}()

	runner := impersonate.NewRunner(impersonate.WithLogger(logger))
	return runner.Run(ctx, h, func(ctx context.Context) error {
		who, err := impersonate.CurrentUser()
		if err != nil {
			return fmt.Errorf("current user: %w", err)
		}
		fmt.Printf("Running as: %s\n", who)

		if cfg.Path != "" {
			if err := listDir(ctx, cfg.Path, cfg.Parallel, os.Stdout); err != nil {
				return err
			}
		}
		if len(cfg.Command) > 0 {
			cmd := exec.CommandContext(ctx, cfg.Command[0], cfg.Command[1:]...)
			cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
			if err := cmd.Run(); err != nil {
				return fmt.Errorf("run %s: %w", cfg.Command[0], err)
			}
		}
		return nil
	})
}

// resolveCredentials returns the credentials for cfg and a function that
// destroys any prompted secret.
func resolveCredentials(cfg *config) (*logon.Credentials, func(), error) {
	if c := builtin(cfg.User); c != nil && cfg.Domain == "" {
		return c, func() {}, nil
	}
	if cfg.Password != "" {
		c, err := cfg.credentials(logon.Password(cfg.Password))
		return c, func() {}, err
	}

	secret, err := promptSecret(os.Stdin, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	c, err := cfg.credentials(secret)
	if err != nil {
		secret.Destroy()
		return nil, nil, err
	}
	return c, secret.Destroy, nil
}

// promptSecret reads a password into a ProtectedSecret, without echo when
// in is a terminal.
func promptSecret(in *os.File, out io.Writer) (*logon.ProtectedSecret, error) {
	fmt.Fprint(out, "Password: ")

	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return nil, fmt.Errorf("read password: %w", err)
		}
		defer clear(b)
		return logon.NewProtectedSecret(b)
	}
	return readSecretLine(bufio.NewReader(in))
}

// readSecretLine reads one line rune by rune so the plaintext never sits in
// an unsealed buffer longer than a rune.
func readSecretLine(r io.RuneReader) (*logon.ProtectedSecret, error) {
	s := &logon.ProtectedSecret{}
	for {
		c, _, err := r.ReadRune()
		if errors.Is(err, io.EOF) || c == '\n' {
			break
		}
		if err != nil {
			s.Destroy()
			return nil, fmt.Errorf("read password: %w", err)
		}
		if c == '\r' {
			continue
		}
		if err := s.AppendRune(c); err != nil {
			s.Destroy()
			return nil, err
		}
	}
	return s, nil
}

// listDir prints the entries of dir, stat-ing them in parallel goroutines
// that carry the caller's identity.
func listDir(ctx context.Context, dir string, parallel int, out io.Writer) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("list %s: %w", dir, err)
	}

	lines := make([]string, len(entries))
	g, ctx := impersonate.WithGroup(ctx)
	g.SetLimit(parallel)
	for i, e := range entries {
		g.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			info, err := os.Stat(filepath.Join(dir, e.Name()))
			if err != nil {
				lines[i] = fmt.Sprintf("  %-40s  <%v>", e.Name(), err)
				return nil
			}
			lines[i] = fmt.Sprintf("  %-40s  %s  %10d", e.Name(), info.Mode(), info.Size())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s (%d entries)\n", dir, len(entries))
	for _, l := range lines {
		fmt.Fprintln(out, l)
	}
	return nil
}

// describe adds a hint for the common logon failures.
func describe(err error) string {
	var le *logon.Error
	if !errors.As(err, &le) {
		return err.Error()
	}
	switch {
	case le.IsLogonFailure():
		return err.Error() + " (check the user name and password)"
	case le.IsAccountLockedOut():
		return err.Error() + " (the account is locked out)"
	case le.IsPasswordExpired():
		return err.Error() + " (change the password first)"
	case le.IsLogonTypeNotGranted():
		return err.Error() + " (try -logon-type network or new-credentials)"
	}
	return err.Error()
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
