// Command client drives the CareLink API from a terminal. The session is
// kept in a LevelDB directory so it survives between runs.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/harentsoaR/carelink/internal/config"
	"github.com/harentsoaR/carelink/internal/gateway"
	"github.com/harentsoaR/carelink/internal/handlers"
	"github.com/harentsoaR/carelink/internal/models"
	"github.com/harentsoaR/carelink/internal/router"
	"github.com/harentsoaR/carelink/internal/services"
	"github.com/harentsoaR/carelink/internal/session"
	"github.com/harentsoaR/carelink/internal/store"
	"github.com/harentsoaR/carelink/internal/utils"
)

const usage = `usage: client [flags] <command> [args]

commands:
  login <email> <password>     sign in and print the landing path
  register <email> <password> <name> <phone> [nationalId]
                               sign up as a patient (or nurse with -nurse)
  whoami                       print the cached user
  profile                      fetch the profile from the backend
  users                        list accounts (admin)
  activate <id>                activate an account (admin)
  deactivate <id>              deactivate an account (admin)
  delete <id>                  delete an account (admin)
  logout                       clear the session
`

func main() {
	nurse := flag.Bool("nurse", false, "register as a nurse")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()

	keys, err := session.OpenLevelDBStore(cfg.SessionDir)
	if err != nil {
		log.Fatalf("Failed to open session store: %v", err)
	}
	defer keys.Close()
	sess := session.New(keys, session.NavigatorFunc(func(path string) {
		log.Printf("-> %s", path)
	}))

	gwCfg := gateway.Config{
		BaseURL:    cfg.BaseURL(),
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
		Simulate:   cfg.Simulate(),
	}
	if gwCfg.Simulate {
		sim, err := mockBackend(cfg)
		if err != nil {
			log.Fatalf("Failed to start mock backend: %v", err)
		}
		gwCfg.Simulator = sim
	}
	auth := services.NewAuthService(gateway.New(gwCfg, sess), sess)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := run(ctx, auth, *nurse, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", gateway.Message(err))
		os.Exit(1)
	}
}

// mockBackend builds the in-process backend that answers when the real one
// can not be reached. Its fixtures reset on every run.
func mockBackend(cfg config.Config) (http.Handler, error) {
	// stdout carries command output; keep gin's route dump off it.
	gin.SetMode(gin.ReleaseMode)
	s, err := store.NewSeededMemoryStore(bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	h := handlers.NewHandler(s, utils.NewTokenIssuer(cfg.JWTSecret, 24*time.Hour), bcrypt.MinCost)
	return router.New(h, router.Options{Latency: cfg.MockLatency}), nil
}

func run(ctx context.Context, auth *services.AuthService, nurse bool, args []string) error {
	cmd, args := args[0], args[1:]
	need := func(n int) error {
		if len(args) < n {
			return fmt.Errorf("%s: expected %d arguments", cmd, n)
		}
		return nil
	}

	switch cmd {
	case "login":
		if err := need(2); err != nil {
			return err
		}
		if creds, ok := auth.TestCredentials(); ok {
			log.Printf("Mock backend active, admin login: %s / %s", creds.Email, creds.Password)
		}
		path, err := auth.SignIn(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Println(path)
	case "register":
		if err := need(4); err != nil {
			return err
		}
		form := services.RegisterForm{
			Email:           args[0],
			Password:        args[1],
			ConfirmPassword: args[1],
			Name:            args[2],
			Phone:           args[3],
			UserType:        models.RolePatient,
			AcceptTerms:     true,
		}
		if nurse {
			form.UserType = models.RoleNurse
		}
		if len(args) > 4 {
			form.NationalID = args[4]
		}
		if _, err := auth.SubmitRegistration(ctx, form); err != nil {
			return err
		}
		fmt.Println("Registered. An administrator must activate the account before you can sign in.")
	case "whoami":
		user, ok := auth.CurrentUser()
		if !ok {
			return services.ErrNotAuthenticated
		}
		return printJSON(user)
	case "profile":
		user, err := auth.GetProfile(ctx)
		if err != nil {
			return err
		}
		return printJSON(user)
	case "users":
		users, err := auth.ListUsers(ctx)
		if err != nil {
			return err
		}
		return printJSON(users)
	case "activate", "deactivate":
		if err := need(1); err != nil {
			return err
		}
		update := auth.ActivateUser
		if cmd == "deactivate" {
			update = auth.DeactivateUser
		}
		user, err := update(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(user)
	case "delete":
		if err := need(1); err != nil {
			return err
		}
		return auth.DeleteUser(ctx, args[0])
	case "logout":
		return auth.Logout()
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
