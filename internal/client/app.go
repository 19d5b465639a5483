package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MKhiriev/gesture-sense/internal/adapter"
	"github.com/MKhiriev/gesture-sense/internal/logger"
	"github.com/MKhiriev/gesture-sense/models"
)

const usage = `usage: client [flags] <command> [args]

commands:
  health                              check server and database
  version                             print server version
  seed                                create or fetch the development user
  register <email> <password> [name]  create an account
  login <email> <password>            check credentials
  user <id>                           show a user
  prefs <id> <key=value>...           update preferences
  delete <id>                         delete a user
`

type command struct {
	minArgs int
	maxArgs int
	run     func(ctx context.Context, args []string) error
}

// App dispatches a single command to the server adapter.
type App struct {
	adapter  adapter.ServerAdapter
	out      io.Writer
	commands map[string]command

	logger *logger.Logger
}

// NewApp returns an App printing results to out.
func NewApp(serverAdapter adapter.ServerAdapter, out io.Writer, logger *logger.Logger) *App {
	a := &App{adapter: serverAdapter, out: out, logger: logger}
	a.commands = map[string]command{
		"health":   {run: a.health},
		"version":  {run: a.version},
		"seed":     {run: a.seed},
		"register": {minArgs: 2, maxArgs: 3, run: a.register},
		"login":    {minArgs: 2, maxArgs: 2, run: a.login},
		"user":     {minArgs: 1, maxArgs: 1, run: a.user},
		"prefs":    {minArgs: 2, maxArgs: -1, run: a.prefs},
		"delete":   {minArgs: 1, maxArgs: 1, run: a.delete},
	}

	return a
}

// Run executes args[0] with the remaining args as operands.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return ErrNoCommand
	}

	name, operands := args[0], args[1:]
	if name == "help" {
		fmt.Fprint(a.out, usage)
		return nil
	}

	cmd, ok := a.commands[name]
	if !ok {
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	if len(operands) < cmd.minArgs || (cmd.maxArgs >= 0 && len(operands) > cmd.maxArgs) {
		return fmt.Errorf("%w for %s", ErrWrongArguments, name)
	}

	a.logger.Debug().Str("command", name).Msg("running command")

	return cmd.run(ctx, operands)
}

func (a *App) health(ctx context.Context, _ []string) error {
	if err := a.adapter.Health(ctx); err != nil {
		return err
	}

	return a.print(models.HealthStatus{Status: "ok"})
}

func (a *App) version(ctx context.Context, _ []string) error {
	v, err := a.adapter.Version(ctx)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(a.out, v)
	return err
}

func (a *App) seed(ctx context.Context, _ []string) error {
	user, err := a.adapter.Seed(ctx)
	if err != nil {
		return err
	}

	return a.print(user)
}

func (a *App) register(ctx context.Context, args []string) error {
	req := models.RegisterRequest{Email: args[0], Password: args[1]}
	if len(args) == 3 {
		req.Name = args[2]
	}

	user, err := a.adapter.Register(ctx, req)
	if err != nil {
		return err
	}

	return a.print(user)
}

func (a *App) login(ctx context.Context, args []string) error {
	user, err := a.adapter.Login(ctx, models.LoginRequest{Email: args[0], Password: args[1]})
	if err != nil {
		return err
	}

	return a.print(user)
}

func (a *App) user(ctx context.Context, args []string) error {
	user, err := a.adapter.GetUser(ctx, args[0])
	if err != nil {
		return err
	}

	return a.print(user)
}

func (a *App) prefs(ctx context.Context, args []string) error {
	update, err := parsePreferences(args[1:])
	if err != nil {
		return err
	}

	prefs, err := a.adapter.UpdatePreferences(ctx, args[0], update)
	if err != nil {
		return err
	}

	return a.print(prefs)
}

func (a *App) delete(ctx context.Context, args []string) error {
	if err := a.adapter.DeleteUser(ctx, args[0]); err != nil {
		return err
	}

	_, err := fmt.Fprintf(a.out, "user %s deleted\n", args[0])
	return err
}

func (a *App) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parsePreferences turns key=value pairs into a partial update. Boolean keys
// accept anything strconv.ParseBool does.
func parsePreferences(pairs []string) (models.PreferencesUpdate, error) {
	var update models.PreferencesUpdate

	bools := map[string]**bool{
		"notifications":            &update.Notifications,
		"handGestureDetection":     &update.HandGestureDetection,
		"facialEmotionRecognition": &update.FacialEmotionRecognition,
		"speechRecognition":        &update.SpeechRecognition,
		"darkMode":                 &update.DarkMode,
		"highContrast":             &update.HighContrast,
		"reducedMotion":            &update.ReducedMotion,
	}
	strs := map[string]**string{
		"theme":    &update.Theme,
		"language": &update.Language,
	}

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return models.PreferencesUpdate{}, fmt.Errorf("%w: expected key=value, got %q", ErrWrongArguments, pair)
		}

		if dst, found := bools[key]; found {
			b, err := strconv.ParseBool(value)
			if err != nil {
				return models.PreferencesUpdate{}, fmt.Errorf("preference %s: %w", key, err)
			}
			*dst = &b
			continue
		}
		if dst, found := strs[key]; found {
			v := value
			*dst = &v
			continue
		}

		return models.PreferencesUpdate{}, fmt.Errorf("%w: unknown preference %q", ErrWrongArguments, key)
	}

	return update, nil
}
