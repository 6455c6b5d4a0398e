// Package api serves the gift registry's user and authentication endpoints
// over net/http.
//
// Routes:
//
//	POST /api/user/auth/login/code  {"phone_number"}                -> {"login_code"}
//	POST /api/user/auth/login       {"phone_number","login_code"}   -> {"token"}
//	GET  /api/user/logout           (guarded)                       -> {"status":200}
//	GET  /api/user                  (guarded)                       -> current user
//	PUT  /api/user                  (guarded) {"first_name","last_name"}
//	GET  /api/user/{id}             (guarded)
//	GET  /api/user/search           (guarded, rate limited) ?phone_number=
//	GET  /api/users                 (guarded) ?page=&per_page=
//
// Errors are JSON objects of the form {"error": "<status text>", "message": "..."}.
package api
