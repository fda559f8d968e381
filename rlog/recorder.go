// Package rlog writes audit entries for notable session events into a
// dedicated logs graph, using the rlog vocabulary. Entries are best-effort:
// a failed write is logged locally and never surfaced to the caller.
package rlog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lblod/acmidm-login-service/sparql"
)

const (
	entryBaseURI = "http://data.lblod.info/id/log-entries/"
	source       = "http://mu.semte.ch/services/acmidm-login-service"

	// Entry classes
	ClassLoginFailure   = "http://mu.semte.ch/vocabularies/ext/LoginFailure"
	ClassUnknownSession = "http://mu.semte.ch/vocabularies/ext/UnknownSession"
)

// Recorder persists audit entries.
type Recorder struct {
	store     sparql.Executor
	logsGraph string
	log       zerolog.Logger
}

func NewRecorder(store sparql.Executor, logsGraph string, log zerolog.Logger) *Recorder {
	return &Recorder{store: store, logsGraph: logsGraph, log: log}
}

// Record writes one entry. Errors are swallowed after local logging so audit
// writes never change the outcome of the request being audited.
func (r *Recorder) Record(ctx context.Context, class, message, sessionURI string) {
	if r == nil {
		return
	}

	id := uuid.NewString()
	entryURI := entryBaseURI + id
	update := fmt.Sprintf(`PREFIX rlog: <http://persistence.uni-leipzig.org/nlp2rdf/ontologies/rlog#>
PREFIX mu: <http://mu.semte.ch/vocabularies/core/>
PREFIX ext: <http://mu.semte.ch/vocabularies/ext/>
PREFIX dcterms: <http://purl.org/dc/terms/>

INSERT DATA {
  GRAPH %s {
    %s a rlog:Entry ;
       mu:uuid %s ;
       dcterms:source %s ;
       rlog:className %s ;
       rlog:message %s ;
       rlog:date %s ;
       ext:sessionUri %s .
  }
}`,
		sparql.URI(r.logsGraph),
		sparql.URI(entryURI),
		sparql.Literal(id),
		sparql.URI(source),
		sparql.URI(class),
		sparql.Literal(message),
		sparql.DateTime(time.Now()),
		sparql.URI(sessionURI))

	if err := r.store.Update(ctx, update); err != nil {
		r.log.Warn().Err(err).Str("session", sessionURI).Msg("rlog: failed to persist audit entry")
	}
}
