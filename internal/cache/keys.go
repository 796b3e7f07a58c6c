package cache

import (
	"fmt"

	"github.com/google/uuid"
)

func InspectionSessionKey(tenantID, sessionID uuid.UUID) string {
	return fmt.Sprintf("inspection:session:%s:%s", tenantID, sessionID)
}

func LaborEstimateKey(inputHash string) string {
	return fmt.Sprintf("labor:estimate:%s", inputHash)
}

func RateLimitKey(keyPrefix string) string {
	return fmt.Sprintf("ratelimit:%s", keyPrefix)
}
