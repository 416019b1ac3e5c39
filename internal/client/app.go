package client

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/MKhiriev/go-user-keeper/internal/adapter"
	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/MKhiriev/go-user-keeper/models"
)

type command func(ctx context.Context, args []string) error

type App struct {
	api adapter.UserAPI
	out io.Writer

	commands map[string]command

	logger *logger.Logger
}

func NewApp(api adapter.UserAPI, out io.Writer, logger *logger.Logger) (*App, error) {
	if api == nil || out == nil {
		return nil, fmt.Errorf("%w: api client and output are required", ErrUsage)
	}

	a := &App{api: api, out: out, logger: logger}
	a.commands = map[string]command{
		"version": a.version,
		"login":   a.login,
		"create":  a.create,
		"get":     a.get,
		"me":      a.me,
		"list":    a.list,
		"update":  a.update,
		"passwd":  a.passwd,
		"delete":  a.delete,
	}

	return a, nil
}

func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: command is required", ErrUsage)
	}

	cmd, ok := a.commands[args[0]]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}

	a.logger.Debug().Str("func", "*App.Run").Str("command", args[0]).Msg("running command")
	return cmd(ctx, args[1:])
}

func (a *App) version(ctx context.Context, _ []string) error {
	v, err := a.api.Version(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, v)
	return err
}

func (a *App) login(ctx context.Context, args []string) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := parse(fs, args); err != nil {
		return err
	}

	session, err := a.api.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	return a.print(session)
}

func (a *App) create(ctx context.Context, args []string) error {
	fs := newFlagSet("create")
	var input models.CreateUserInput
	fs.StringVar(&input.Email, "email", "", "email of the new user")
	fs.StringVar(&input.Password, "password", "", "password of the new user")
	fs.StringVar(&input.Name, "name", "", "display name")
	role := fs.String("role", "", "user or admin")
	if err := parse(fs, args); err != nil {
		return err
	}
	input.Role = models.Role(*role)

	user, err := a.api.CreateUser(ctx, input)
	if err != nil {
		return err
	}
	return a.print(user)
}

func (a *App) get(ctx context.Context, args []string) error {
	id, err := singleID("get", args)
	if err != nil {
		return err
	}

	user, err := a.api.GetUser(ctx, id)
	if err != nil {
		return err
	}
	return a.print(user)
}

func (a *App) me(ctx context.Context, _ []string) error {
	user, err := a.api.GetSelf(ctx)
	if err != nil {
		return err
	}
	return a.print(user)
}

func (a *App) list(ctx context.Context, args []string) error {
	fs := newFlagSet("list")
	var query models.UserQuery
	fs.IntVar(&query.Page, "page", 0, "1-based page")
	fs.IntVar(&query.Limit, "limit", 0, "page size")
	fs.StringVar(&query.Search, "q", "", "substring of name or email")
	fields := fs.String("fields", "", "comma-separated fields to return")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *fields != "" {
		query.Fields = strings.Split(*fields, ",")
	}

	users, err := a.api.ListUsers(ctx, query)
	if err != nil {
		return err
	}
	return a.print(users)
}

func (a *App) update(ctx context.Context, args []string) error {
	fs := newFlagSet("update")
	name := fs.String("name", "", "new display name")
	if err := parse(fs, args); err != nil {
		return err
	}
	id, err := singleID("update", fs.Args())
	if err != nil {
		return err
	}

	var input models.UpdateUserInput
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "name" {
			input.Name = name
		}
	})

	user, err := a.api.UpdateUser(ctx, id, input)
	if err != nil {
		return err
	}
	return a.print(user)
}

func (a *App) passwd(ctx context.Context, args []string) error {
	fs := newFlagSet("passwd")
	var credentials models.BasicCredentials
	fs.StringVar(&credentials.Email, "email", "", "email to authenticate with")
	fs.StringVar(&credentials.Password, "password", "", "current password")
	newPassword := fs.String("new", "", "new password")
	if err := parse(fs, args); err != nil {
		return err
	}
	id, err := singleID("passwd", fs.Args())
	if err != nil {
		return err
	}

	user, err := a.api.ChangePassword(ctx, id, credentials, *newPassword)
	if err != nil {
		return err
	}
	return a.print(user)
}

func (a *App) delete(ctx context.Context, args []string) error {
	id, err := singleID("delete", args)
	if err != nil {
		return err
	}

	if err = a.api.DeleteUser(ctx, id); err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.out, "deleted %s\n", id)
	return err
}

func (a *App) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUsage, fs.Name(), err)
	}
	return nil
}

func singleID(cmd string, args []string) (string, error) {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return "", fmt.Errorf("%w: %s takes exactly one user id", ErrUsage, cmd)
	}
	return args[0], nil
}
