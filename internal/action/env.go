package action

import "strings"

// ContextFromEnviron arma el Context de la acción a partir de un
// os.Environ(). El invocador embebido (CLI / HTTP) no distingue entre
// environment y secrets: ambos mapas ven el mismo snapshot, y el
// resolver de auth solo lee los nombres que reconoce.
func ContextFromEnviron(environ []string) Context {
	m := make(map[string]string, len(environ))
	for _, kv := range environ {
		if i := strings.IndexByte(kv, '='); i > 0 {
			m[kv[:i]] = kv[i+1:]
		}
	}
	return Context{Environment: m, Secrets: m}
}
