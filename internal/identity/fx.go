package identity

import "go.uber.org/fx"

// Module wires token verification and issuance.
var Module = fx.Module("identity",
	fx.Provide(NewVerifier),
	fx.Provide(NewIssuer),
)
