package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/credkeeper/internal/client/authclient"
)

// AuthClient is the server surface the commands need.
type AuthClient interface {
	Register(ctx context.Context, email, password, biometricKey string) (*authclient.Session, error)
	Login(ctx context.Context, email, password string) (*authclient.Session, error)
	BiometricLogin(ctx context.Context, biometricKey string) (*authclient.Session, error)
	Me(ctx context.Context, accessToken string) (*authclient.Profile, error)
}

var ErrUsage = errors.New("usage: credkeeper <register|login|biometric|me> [flags]")

// Run executes the subcommand named by args[0]. Prompts and results go to out.
func Run(ctx context.Context, args []string, client AuthClient, in io.Reader, out io.Writer) error {
	if len(args) == 0 {
		return ErrUsage
	}

	p := newPrompter(in, out)
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "register":
		return register(ctx, rest, client, p)
	case "login":
		return login(ctx, rest, client, p)
	case "biometric":
		return biometric(ctx, rest, client, p)
	case "me":
		return me(ctx, rest, client, p)
	case "help", "-h", "--help":
		fmt.Fprintln(out, ErrUsage.Error())
		return nil
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, ErrUsage)
	}
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

func register(ctx context.Context, args []string, client AuthClient, p *prompter) error {
	fs := newFlagSet("register", p.out)
	email := fs.String("e", "", "account email")
	withBiometric := fs.Bool("b", false, "also enroll a biometric key")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	if *email == "" {
		if *email, err = p.line("Email"); err != nil {
			return err
		}
	}

	password, err := p.secret("Password")
	if err != nil {
		return err
	}

	var biometricKey string
	if *withBiometric {
		if biometricKey, err = p.secret("Biometric key"); err != nil {
			return err
		}
	}

	s, err := client.Register(ctx, *email, password, biometricKey)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	printSession(p.out, s)
	return nil
}

func login(ctx context.Context, args []string, client AuthClient, p *prompter) error {
	fs := newFlagSet("login", p.out)
	email := fs.String("e", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	if *email == "" {
		if *email, err = p.line("Email"); err != nil {
			return err
		}
	}

	password, err := p.secret("Password")
	if err != nil {
		return err
	}

	s, err := client.Login(ctx, *email, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	printSession(p.out, s)
	return nil
}

func biometric(ctx context.Context, args []string, client AuthClient, p *prompter) error {
	fs := newFlagSet("biometric", p.out)
	if err := fs.Parse(args); err != nil {
		return err
	}

	key, err := p.secret("Biometric key")
	if err != nil {
		return err
	}

	s, err := client.BiometricLogin(ctx, key)
	if err != nil {
		return fmt.Errorf("biometric login: %w", err)
	}
	printSession(p.out, s)
	return nil
}

func me(ctx context.Context, args []string, client AuthClient, p *prompter) error {
	fs := newFlagSet("me", p.out)
	token := fs.String("t", "", "access token")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *token == "" {
		return fmt.Errorf("me: -t is required: %w", ErrUsage)
	}

	profile, err := client.Me(ctx, *token)
	if err != nil {
		return fmt.Errorf("me: %w", err)
	}
	fmt.Fprintf(p.out, "user id: %s\nemail: %s\n", profile.ID, profile.Email)
	return nil
}

func printSession(w io.Writer, s *authclient.Session) {
	fmt.Fprintf(w, "access token: %s\nuser id: %s\n", s.AccessToken, s.UserID)
}
