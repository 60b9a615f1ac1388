// Package authz is the request-time entry point of the authorization core.
// It composes the token service, the permission cache, and the credential
// hasher behind a small facade the transport layer calls:
//
//	svc, err := authz.NewService(authz.Dependencies{
//	    Tokens: tokenService,
//	    Cache:  cache,
//	    Users:  grantStore,
//	    Hasher: credentials.NewHasher(),
//	})
//
//	userID, err := svc.Authorize(ctx, bearerToken, "document:write")
//	switch {
//	case errors.Is(err, authz.ErrUnauthenticated): // 401
//	case errors.Is(err, authz.ErrPermissionDenied): // 403
//	}
//
// Authentication failures and authorization denials are distinct sentinel
// errors so the caller can map them to distinct response codes without the
// core dictating transport status codes. Denials intentionally do not say
// which permission was missing.
//
// Every resolution or backend failure surfaces as a deny (with the cause
// wrapped for logging); under uncertainty the gate never allows.
//
// Grant mutations in the surrounding service layer report through the
// OnRoleGrantChanged, OnRoleDefinitionChanged, and OnDirectGrantChanged
// hooks, which invalidate the permission cache synchronously before the
// mutating call completes.
package authz
