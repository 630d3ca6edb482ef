// Command obsportal-admin is an interactive terminal tool for account
// administration: creating observers, resetting passwords, and changing
// privilege levels.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"golang.org/x/crypto/bcrypt"

	"github.com/macro-obs/obsportal/internal/store"
	"github.com/macro-obs/obsportal/pkg/visibility"
)

var roleOptions = []string{
	string(visibility.RoleNovice),
	string(visibility.RoleIntermediate),
	string(visibility.RoleAdvanced),
	string(visibility.RoleLead),
	string(visibility.RoleAdmin),
}

func main() {
	databasePath := flag.String("db", "obsportal.db", "path to the portal database")
	flag.Parse()

	if err := run(*databasePath); err != nil {
		if isInterrupt(err) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, "obsportal-admin:", err)
		os.Exit(1)
	}
}

func run(databasePath string) error {
	st, err := store.Open(databasePath)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	for {
		var action string
		prompt := &survey.Select{
			Message: "What would you like to do?",
			Options: []string{"Create observer", "Reset password", "Change role", "Quit"},
		}
		if err := survey.AskOne(prompt, &action); err != nil {
			return err
		}

		switch action {
		case "Create observer":
			err = createObserver(ctx, st)
		case "Reset password":
			err = resetPassword(ctx, st)
		case "Change role":
			err = changeRole(ctx, st)
		default:
			return nil
		}
		if err != nil {
			if isInterrupt(err) {
				return err
			}
			fmt.Fprintln(os.Stderr, "error:", err)
		}
	}
}

func createObserver(ctx context.Context, st *store.Store) error {
	institutions, err := st.Institutions(ctx)
	if err != nil {
		return err
	}
	names := make([]string, len(institutions))
	for i, institution := range institutions {
		names[i] = institution.Name
	}

	answers := struct {
		FirstName   string
		LastName    string
		Email       string
		Institution string
		Role        string
	}{}

	questions := []*survey.Question{
		{
			Name:     "firstName",
			Prompt:   &survey.Input{Message: "First name:"},
			Validate: survey.Required,
		},
		{
			Name:     "lastName",
			Prompt:   &survey.Input{Message: "Last name:"},
			Validate: survey.Required,
		},
		{
			Name:     "email",
			Prompt:   &survey.Input{Message: "Email:"},
			Validate: emailValidator,
		},
		{
			Name:   "institution",
			Prompt: &survey.Select{Message: "Institution:", Options: names},
		},
		{
			Name:   "role",
			Prompt: &survey.Select{Message: "Role:", Options: roleOptions},
		},
	}
	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}

	password, err := promptPassword()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &store.User{
		FirstName:    answers.FirstName,
		LastName:     answers.LastName,
		Email:        strings.ToLower(strings.TrimSpace(answers.Email)),
		PasswordHash: string(hash),
		Institution:  answers.Institution,
		UserLevel:    answers.Role,
	}
	if err := st.CreateUser(ctx, user); err != nil {
		return err
	}

	fmt.Printf("Created %s %s <%s> with observer code %s\n",
		user.FirstName, user.LastName, user.Email, user.ObserverCode)
	return nil
}

func resetPassword(ctx context.Context, st *store.Store) error {
	email, err := promptEmail(ctx, st)
	if err != nil {
		return err
	}

	password, err := promptPassword()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := st.UpdatePassword(ctx, email, string(hash)); err != nil {
		return err
	}
	fmt.Println("Password updated for", email)
	return nil
}

func changeRole(ctx context.Context, st *store.Store) error {
	email, err := promptEmail(ctx, st)
	if err != nil {
		return err
	}

	var role string
	if err := survey.AskOne(&survey.Select{Message: "New role:", Options: roleOptions}, &role); err != nil {
		return err
	}

	if err := st.UpdateUserLevel(ctx, email, role); err != nil {
		return err
	}
	fmt.Println(email, "is now", role)
	return nil
}

func promptEmail(ctx context.Context, st *store.Store) (string, error) {
	var email string
	if err := survey.AskOne(&survey.Input{Message: "Email:"}, &email, survey.WithValidator(emailValidator)); err != nil {
		return "", err
	}
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := st.UserByEmail(ctx, email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", fmt.Errorf("no account for %s", email)
		}
		return "", err
	}
	return email, nil
}

func promptPassword() (string, error) {
	var password string
	prompt := &survey.Password{Message: "New password:"}
	if err := survey.AskOne(prompt, &password, survey.WithValidator(survey.MinLength(8))); err != nil {
		return "", err
	}

	var confirm string
	if err := survey.AskOne(&survey.Password{Message: "Confirm password:"}, &confirm); err != nil {
		return "", err
	}
	if password != confirm {
		return "", errors.New("passwords do not match")
	}
	return password, nil
}

func emailValidator(value any) error {
	raw, ok := value.(string)
	if !ok || !strings.Contains(raw, "@") {
		return errors.New("a valid email address is required")
	}
	return nil
}

func isInterrupt(err error) bool {
	return errors.Is(err, terminal.InterruptErr)
}
