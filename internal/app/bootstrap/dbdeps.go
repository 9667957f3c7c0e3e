// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/lingualearn/lingualearn/internal/gateway"
)

// DBDeps holds back-end dependencies for the app. LinguaLearn keeps no
// database of its own; all state lives behind the gateway client.
type DBDeps struct {
	Gateway *gateway.Client
}
