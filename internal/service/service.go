package service

import (
	"github.com/smartcity/hotspots/internal/domain"
)

// ObservationRepository is re-exported from domain for convenience
type ObservationRepository = domain.ObservationRepository
