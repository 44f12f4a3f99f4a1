// Package sanitize contiene funciones puras (sin I/O) para neutralizar input no
// confiable antes de usarlo o persistirlo: escape de HTML, limpieza de texto,
// allow-list de URLs, validación de username y origin, y mapeo de errores internos
// a mensajes seguros.
//
// Las decisiones heurísticas viven en tablas versionadas (rules.go) para poder
// testearlas y actualizarlas sin tocar las funciones que las consumen.
package sanitize
