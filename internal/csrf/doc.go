// Package csrf implementa protección CSRF de double-submit.
//
// El token se guarda en la cookie HttpOnly "csrf_token" como JSON
// {"token","expiresAt"} url-encoded y el cliente lo reenvía en el header
// x-csrf-token, el campo de form _csrf o el query param _csrf.
//
// Dos validadores:
//   - Validator: usa el Store (cookie parseada por net/http).
//   - EdgeValidator: parsea el header Cookie a mano y además exige Origin == Host.
package csrf
