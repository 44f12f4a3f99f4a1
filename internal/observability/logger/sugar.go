package logger

import "go.uber.org/zap"

// S retorna el SugaredLogger del singleton.
// Útil en cmd/ para mensajes de arranque printf-style.
//
//	logger.S().Infof("hubguard listening on %s", addr)
func S() *zap.SugaredLogger {
	return L().Sugar()
}
