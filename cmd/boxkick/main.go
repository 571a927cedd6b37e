// boxkick: acción de terminación forzada de sesiones Box.
//
// Tres subcomandos: terminate (invoca la acción una vez), halt (registra
// la detención de un job) y serve (expone la acción por HTTP).
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/boxkick/internal/acterr"
	"github.com/dropDatabas3/boxkick/internal/action"
	"github.com/dropDatabas3/boxkick/internal/config"
	"github.com/dropDatabas3/boxkick/internal/http/handlers"
	"github.com/dropDatabas3/boxkick/internal/http/router"
	"github.com/dropDatabas3/boxkick/internal/observability/logger"
)

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

func loadConfig(flagPath string) *config.Config {
	path := flagPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" && fileExists("configs/config.yaml") {
		path = "configs/config.yaml"
	}
	if path == "" {
		// Sin YAML: env-only
		return config.FromEnv()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func printJSON(v any) {
	p, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(p))
}

func main() {
	var (
		flagConfig  string
		flagEnvFile string

		cfg *config.Config
	)

	root := &cobra.Command{
		Use:   "boxkick",
		Short: "Forzar logout de un usuario Box (terminate sessions)",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagEnvFile != "" && fileExists(flagEnvFile) {
				_ = godotenv.Load(flagEnvFile)
			}
			cfg = loadConfig(flagConfig)
			logger.Init(logger.Config{
				Env:         cfg.App.Env,
				Level:       cfg.Log.Level,
				ServiceName: "boxkick",
			})
		},
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "ruta a config.yaml (fallback: $CONFIG_PATH o configs/config.yaml)")
	root.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "ruta a .env (si existe, se carga)")

	var (
		userID    string
		userLogin string
		address   string
	)
	terminate := &cobra.Command{
		Use:   "terminate",
		Short: "Invoca la acción una vez y muestra el resultado",
		Run: func(cmd *cobra.Command, args []string) {
			defer func() { _ = logger.Sync() }()

			hc := &http.Client{Timeout: cfg.HTTPTimeout()}
			h := action.NewHandler(hc)

			in := action.Input{UserID: userID, UserLogin: userLogin, Address: address}
			if in.Address == "" {
				in.Address = cfg.Box.Address
			}
			res, err := h.Invoke(cmd.Context(), in, action.ContextFromEnviron(os.Environ()))
			if err != nil {
				var ae *acterr.Error
				if errors.As(err, &ae) {
					fmt.Fprintf(os.Stderr, "%s: %s\n", ae.Kind, ae.Message)
					if ae.Kind == acterr.KindRetryable {
						os.Exit(75) // EX_TEMPFAIL: el caller puede reintentar
					}
				} else {
					fmt.Fprintln(os.Stderr, err)
				}
				os.Exit(1)
			}
			printJSON(res)
		},
	}
	terminate.Flags().StringVar(&userID, "user-id", "", "Box user ID (requerido)")
	terminate.Flags().StringVar(&userLogin, "user-login", "", "Box login email (requerido)")
	terminate.Flags().StringVar(&address, "address", "", "origin de la API (default: config/env/https://api.box.com)")

	var haltReason string
	halt := &cobra.Command{
		Use:   "halt",
		Short: "Registra la detención de un job (no hay cleanup real)",
		Run: func(cmd *cobra.Command, args []string) {
			defer func() { _ = logger.Sync() }()

			h := action.NewHandler(nil)
			res := h.Halt(cmd.Context(), action.HaltInput{
				UserID:    userID,
				UserLogin: userLogin,
				Reason:    haltReason,
			}, action.ContextFromEnviron(os.Environ()))
			printJSON(res)
		},
	}
	halt.Flags().StringVar(&haltReason, "reason", "", "motivo de la detención")
	halt.Flags().StringVar(&userID, "user-id", "", "Box user ID (best-effort)")
	halt.Flags().StringVar(&userLogin, "user-login", "", "Box login email (best-effort)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Expone la acción por HTTP (invoker embebido)",
		Run: func(cmd *cobra.Command, args []string) {
			defer func() { _ = logger.Sync() }()
			log := logger.Named("server")

			hc := &http.Client{Timeout: cfg.HTTPTimeout()}
			ah := handlers.NewActionsHandler(action.NewHandler(hc))

			srv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           router.New(ah),
				ReadHeaderTimeout: 5 * time.Second,
			}

			go func() {
				log.Info("listening", logger.String("addr", cfg.Server.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("server error", logger.Err(err))
					os.Exit(1)
				}
			}()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			<-stop

			log.Info("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		},
	}

	root.AddCommand(terminate, halt, serve)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
