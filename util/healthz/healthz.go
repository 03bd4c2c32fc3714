package healthz

import (
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// Path is the path the health check is served on
const Path = "/healthz"

// ServeHealthCheck serves the health check endpoint. f returns an error if the server is unavailable.
func ServeHealthCheck(mux *http.ServeMux, f func(r *http.Request) error) {
	mux.HandleFunc(Path, func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()
		if err := f(r); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			log.WithFields(log.Fields{
				log.ErrorKey: err,
				"duration":   time.Since(startTime),
			}).Error("Error serving health check request")
			fmt.Fprintln(w, err)
			return
		}
		fmt.Fprintln(w, "ok")
	})
}
