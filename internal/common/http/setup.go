package http

import (
	"net/http"

	"github.com/myflix/backend/internal/common/constants"
	"github.com/myflix/backend/internal/common/httpmetrics"
	"github.com/myflix/backend/internal/common/logger"
)

// BuildBaseHandler stacks the ambient middleware every route gets: security
// headers, panic recovery, trace IDs, request size cap and request metrics.
func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)

	return SecurityHeadersMiddleware(recovery(TraceIDMiddleware(maxRequestSize(httpmetrics.Wrap(handler)))))
}
