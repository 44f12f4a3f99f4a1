package csrf

import (
	"net/http"

	httperrors "github.com/dropDatabas3/hubguard/internal/http/errors"
	"github.com/dropDatabas3/hubguard/internal/metrics"
	"github.com/dropDatabas3/hubguard/internal/observability/logger"
	tokens "github.com/dropDatabas3/hubguard/internal/security/token"
)

// ErrorHeader marca respuestas rechazadas por CSRF.
const ErrorHeader = "X-CSRF-Error"

// Validator valida el token del request contra el guardado en la cookie.
type Validator struct {
	Store   *Store
	MaxBody int64
}

func NewValidator(store *Store) *Validator {
	return &Validator{Store: store, MaxBody: DefaultMaxBody}
}

func (v *Validator) maxBody() int64 {
	if v.MaxBody <= 0 {
		return DefaultMaxBody
	}
	return v.MaxBody
}

// ExtractToken busca el token en x-csrf-token, luego en el campo de form
// _csrf y por último en el query param _csrf. El body no se consume.
func (v *Validator) ExtractToken(r *http.Request) string {
	if c := candidates(r, v.maxBody()); len(c) > 0 {
		return c[0]
	}
	return ""
}

// Validate decide si el request pasa el check CSRF.
func (v *Validator) Validate(r *http.Request) bool {
	ctx := r.Context()
	log := logger.From(ctx).With(
		logger.Security(),
		logger.Component("csrf"),
		logger.Method(r.Method),
		logger.Path(r.URL.Path),
	)

	if IsSafeMethod(r.Method) {
		metrics.RecordCSRF("skipped")
		log.Debug("csrf check skipped: safe method")
		return true
	}
	if hasBearer(r) {
		metrics.RecordCSRF("bearer")
		log.Debug("csrf check skipped: bearer auth")
		return true
	}

	reqToken := v.ExtractToken(r)
	log = log.With(logger.TokenPresent(reqToken != ""), logger.TokenHash(tokens.Fingerprint(reqToken)))

	stored, ok := v.Store.Stored(ctx, HTTPJar(nil, r))
	if !ok {
		metrics.RecordCSRF("missing_stored")
		log.Warn("csrf validation failed", logger.Reason("no stored token"))
		return false
	}
	if reqToken == "" {
		metrics.RecordCSRF("missing_request")
		log.Warn("csrf validation failed", logger.Reason("no token in request"))
		return false
	}
	if !tokens.Equal(stored.Token, reqToken) {
		metrics.RecordCSRF("mismatch")
		log.Warn("csrf validation failed", logger.Reason("token mismatch"))
		return false
	}

	metrics.RecordCSRF("valid")
	log.Debug("csrf validation ok")
	return true
}

// Enforce valida y, si falla, escribe 403 + X-CSRF-Error y devuelve false.
// Si devuelve true el caller sigue normalmente.
func (v *Validator) Enforce(w http.ResponseWriter, r *http.Request) bool {
	if v.Validate(r) {
		return true
	}
	Reject(w)
	return false
}

// Reject escribe la respuesta estándar de rechazo CSRF.
func Reject(w http.ResponseWriter) {
	w.Header().Set(ErrorHeader, "true")
	httperrors.WriteError(w, httperrors.ErrCSRFValidationFailed)
}
