package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pola/git-parameter-plugin/common"
	"github.com/pola/git-parameter-plugin/gitparameter"
	"github.com/pola/git-parameter-plugin/gitparameter/jobs"
	"github.com/pola/git-parameter-plugin/pkg/apis/gitparameter/v1alpha1"
	"github.com/pola/git-parameter-plugin/util/healthz"
	ioutil "github.com/pola/git-parameter-plugin/util/io"
)

const (
	valuesPath = "/api/v1/jobs/{job}/parameters/{name}/values"
	valuePath  = "/api/v1/jobs/{job}/parameters/{name}/value"

	maxPayloadSize = 1 << 20
)

// NewServeCommand returns a new instance of the `serve` command
func NewServeCommand(opts *rootOptions) *cobra.Command {
	var (
		listenHost string
		listenPort int
	)
	command := &cobra.Command{
		Use:   "serve",
		Short: "Serve value lists and value validation over HTTP",
		Long:  "Serve value lists and value validation over HTTP. Job names holding folders are passed URL-escaped, e.g. folder%2Fjob1.",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			set, err := opts.newServiceSet()
			if err != nil {
				return err
			}

			vers := common.GetVersion()
			log.WithFields(log.Fields{
				"version": vers.Version,
				"port":    listenPort,
				"jobs":    len(set.host.Names()),
			}).Info("Starting git-parameter server")

			accessLog := log.StandardLogger().Writer()
			defer ioutil.Close(accessLog)
			server := &http.Server{
				Addr:              fmt.Sprintf("%s:%d", listenHost, listenPort),
				Handler:           handlers.CombinedLoggingHandler(accessLog, newServeHandler(set, opts)),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			errCh := make(chan error, 1)
			go func() { errCh <- server.ListenAndServe() }()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}
			log.Println("got signal, attempting graceful shutdown")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return err
			}
			log.Println("clean shutdown")
			return nil
		},
	}
	command.Flags().StringVar(&listenHost, "address", "", "Listen on given address")
	command.Flags().IntVar(&listenPort, "port", common.DefaultPortServer, "Listen on given port")
	return command
}

func newServeHandler(set *serviceSet, opts *rootOptions) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+valuesPath, func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := opts.withTimeout(r.Context())
		defer cancel()
		result, err := set.service.FillValueItems(ctx, r.PathValue("job"), r.PathValue("name"))
		if err != nil {
			writeError(w, statusOf(err), err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	})
	mux.HandleFunc("POST "+valuePath, func(w http.ResponseWriter, r *http.Request) {
		job, def, err := set.service.Definition(r.PathValue("job"), r.PathValue("name"))
		if err != nil {
			writeError(w, statusOf(err), err)
			return
		}
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadSize))
		if err != nil {
			writeError(w, http.StatusRequestEntityTooLarge, err)
			return
		}

		ctx, cancel := opts.withTimeout(r.Context())
		defer cancel()
		validator := set.service.Validator(ctx, job, *def)
		var value *v1alpha1.AcceptedValue
		if len(bytes.TrimSpace(body)) == 0 {
			value, err = validator.CreateValueFromInvocation(nil)
		} else {
			value, err = validator.CreateValueFromPayload(body)
		}
		set.service.RecordSubmission(err)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		writeJSON(w, http.StatusOK, value)
	})
	mux.Handle("GET /metrics", set.metrics.GetHandler())
	healthz.ServeHealthCheck(mux, func(_ *http.Request) error {
		if len(set.host.Names()) == 0 {
			return errors.New("job catalogue is empty")
		}
		return nil
	})
	return handlers.RecoveryHandler(handlers.RecoveryLogger(log.StandardLogger()))(mux)
}

func statusOf(err error) int {
	if jobs.IsJobNotFound(err) || gitparameter.IsParameterNotFound(err) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
