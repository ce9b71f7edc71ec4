// FilePath: api/resources/resources.go
package resources

import (
	"net/http"

	"github.com/itsatony/sensorscore/internal/musicservice"
	"github.com/itsatony/sensorscore/internal/repository"
)

// Resources holds all HTTP resource handlers
type Resources struct {
	Music       *MusicHandlers
	Audio       *AudioHandlers
	HealthCheck func(w http.ResponseWriter, r *http.Request)
	Metrics     func(w http.ResponseWriter, r *http.Request)
}

// NewResources creates a new Resources instance. The health check reports
// on the service's record store.
func NewResources(svc *musicservice.MusicService, artifacts repository.ArtifactRepository) *Resources {
	var records repository.GenerationRecordRepository
	if svc != nil {
		records = svc.Records
	}
	return &Resources{
		Music:       &MusicHandlers{musicservice: svc},
		Audio:       &AudioHandlers{artifacts: artifacts},
		HealthCheck: HealthCheck(records),
		Metrics:     notAvailable,
	}
}

// SetMetrics sets the metrics handler
func (r *Resources) SetMetrics(h func(w http.ResponseWriter, r *http.Request)) {
	r.Metrics = h
}
