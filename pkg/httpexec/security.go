package httpexec

import (
	"net/http"
	"net/url"

	"github.com/getkin/kin-openapi/openapi3"
)

// applySecurity attaches credentials for the first requirement set whose
// schemes are all satisfiable from the configured credentials. Within a
// requirement set every scheme is applied; an empty requirements list
// means the tool needs no credentials.
func (e *Executor) applySecurity(req *http.Request, query url.Values, requirements openapi3.SecurityRequirements) {
	if len(requirements) == 0 {
		return
	}

	for _, requirement := range requirements {
		if !e.canSatisfy(requirement) {
			continue
		}
		for schemeName := range requirement {
			e.applyScheme(req, query, schemeName)
		}
		return
	}

	e.logger.Warn("no security requirement satisfiable from configured credentials")
}

func (e *Executor) canSatisfy(requirement openapi3.SecurityRequirement) bool {
	for schemeName := range requirement {
		schemeRef, ok := e.schemes[schemeName]
		if !ok || schemeRef == nil || schemeRef.Value == nil {
			return false
		}
		cred, ok := e.creds[schemeName]
		if !ok {
			return false
		}
		if cred.Resolve() == "" && cred.Username == "" {
			return false
		}
	}
	return true
}

func (e *Executor) applyScheme(req *http.Request, query url.Values, schemeName string) {
	scheme := e.schemes[schemeName].Value
	cred := e.creds[schemeName]

	switch scheme.Type {
	case "apiKey":
		switch scheme.In {
		case openapi3.ParameterInHeader:
			req.Header.Set(scheme.Name, cred.Resolve())
		case openapi3.ParameterInQuery:
			query.Set(scheme.Name, cred.Resolve())
		case openapi3.ParameterInCookie:
			req.AddCookie(&http.Cookie{Name: scheme.Name, Value: cred.Resolve()})
		}
	case "http":
		switch scheme.Scheme {
		case "basic":
			req.SetBasicAuth(cred.Username, cred.Password)
		case "bearer":
			req.Header.Set("Authorization", "Bearer "+cred.Resolve())
		}
	case "oauth2", "openIdConnect":
		req.Header.Set("Authorization", "Bearer "+cred.Resolve())
	default:
		e.logger.Warn("unsupported security scheme type", "scheme", schemeName, "type", scheme.Type)
	}
}
