// Package cli implements the userctl terminal client on top of
// pkg/client. Field flags mirror the API's partial-update semantics:
// only flags the user actually passed end up in the request.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/go-playground/validator/v10"

	"userapp/pkg/client"
)

var validate = validator.New()

type App struct {
	client *client.Client
	in     io.Reader
	out    io.Writer
}

func New(c *client.Client, in io.Reader, out io.Writer) *App {
	return &App{
		client: c,
		in:     in,
		out:    out,
	}
}

const usage = `Usage: userctl <command> [arguments]

Commands:
  list                         list all users
  get <id>                     show a single user
  create -name N -email E      create a user (optional: -age)
  update <id> [flags]          update fields (-name, -email, -age, -clear-age)
  delete <id> [-y]             delete a user (asks for confirmation)
`

func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return errors.New("missing command")
	}

	command, rest := args[0], args[1:]

	switch command {
	case "list":
		return a.list(ctx)
	case "get":
		return a.get(ctx, rest)
	case "create":
		return a.create(ctx, rest)
	case "update":
		return a.update(ctx, rest)
	case "delete":
		return a.delete(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *App) list(ctx context.Context) error {
	users, err := a.client.ListUsers(ctx)

	if err != nil {
		return err
	}

	a.renderUsers(users)
	return nil
}

func (a *App) get(ctx context.Context, args []string) error {
	id, err := parseID(args)

	if err != nil {
		return err
	}

	user, err := a.client.GetUser(ctx, id)

	if err != nil {
		return err
	}

	a.renderUsers([]client.User{user})
	return nil
}

func (a *App) create(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(a.out)

	name := fs.String("name", "", "user name")
	email := fs.String("email", "", "email address")
	age := fs.Int("age", 0, "age in years")

	if err := fs.Parse(args); err != nil {
		return err
	}

	newUser := client.NewUser{Name: *name, Email: *email}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "age" {
			newUser.Age = age
		}
	})

	if newUser.Name == "" || newUser.Email == "" {
		return errors.New("Name and email are required")
	}

	if message := checkFields(newUser.Name, newUser.Email, newUser.Age); message != "" {
		return errors.New(message)
	}

	user, err := a.client.CreateUser(ctx, newUser)

	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Created user %d\n", user.ID)
	return a.list(ctx)
}

func (a *App) update(ctx context.Context, args []string) error {
	id, err := parseID(args)

	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	fs.SetOutput(a.out)

	name := fs.String("name", "", "user name")
	email := fs.String("email", "", "email address")
	age := fs.Int("age", 0, "age in years")
	fs.Bool("clear-age", false, "unset the age")

	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	var update client.UserUpdate

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			update.Name = client.Some(*name)
		case "email":
			update.Email = client.Some(*email)
		case "age":
			update.Age = client.Some(*age)
		case "clear-age":
			update.Age = client.Null[int]()
		}
	})

	if !update.Name.Set && !update.Email.Set && !update.Age.Set {
		return errors.New("no fields to update")
	}

	if message := checkUpdate(update); message != "" {
		return errors.New(message)
	}

	user, err := a.client.UpdateUser(ctx, id, update)

	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Updated user %d\n", user.ID)
	return a.list(ctx)
}

func (a *App) delete(ctx context.Context, args []string) error {
	id, err := parseID(args)

	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(a.out)

	yes := fs.Bool("y", false, "skip the confirmation prompt")

	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	if !*yes {
		fmt.Fprintf(a.out, "Delete user %d? [y/N]: ", id)

		answer, _ := bufio.NewReader(a.in).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))

		if answer != "y" && answer != "yes" {
			fmt.Fprintln(a.out, "Aborted.")
			return nil
		}
	}

	user, err := a.client.DeleteUser(ctx, id)

	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Deleted user %d (%s)\n", user.ID, user.Email)
	return a.list(ctx)
}

func (a *App) renderUsers(users []client.User) {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tAGE\tUPDATED")

	for _, user := range users {
		age := "-"

		if user.Age != nil {
			age = strconv.Itoa(*user.Age)
		}

		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			user.ID, user.Name, user.Email, age,
			user.UpdatedAt.Format("2006-01-02 15:04"))
	}

	w.Flush()
}

func parseID(args []string) (int, error) {
	if len(args) == 0 {
		return 0, errors.New("missing user ID")
	}

	id, err := strconv.Atoi(args[0])

	if err != nil {
		return 0, errors.New("Invalid user ID")
	}

	return id, nil
}

// checkFields rejects obviously bad input before it goes over the wire,
// with the same messages the server would answer with.
func checkFields(name, email string, age *int) string {
	if err := validate.Var(name, "min=1,max=100"); err != nil {
		return "Name must be between 1 and 100 characters"
	}

	if err := validate.Var(email, "required,email,max=255"); err != nil {
		return "Invalid email address"
	}

	if age != nil {
		if err := validate.Var(*age, "gte=0,lte=150"); err != nil {
			return "Age must be between 0 and 150"
		}
	}

	return ""
}

func checkUpdate(update client.UserUpdate) string {
	if update.Name.Set {
		if err := validate.Var(update.Name.Value, "min=1,max=100"); err != nil {
			return "Name must be between 1 and 100 characters"
		}
	}

	if update.Email.Set {
		if err := validate.Var(update.Email.Value, "required,email,max=255"); err != nil {
			return "Invalid email address"
		}
	}

	if update.Age.Set && update.Age.Valid {
		if err := validate.Var(update.Age.Value, "gte=0,lte=150"); err != nil {
			return "Age must be between 0 and 150"
		}
	}

	return ""
}
