package migrations

import "embed"

// FS holds the campaign, post, asset and run ledger schema.
//
//go:embed *.sql
var FS embed.FS

// Version is the schema version a server built from this tree runs against.
// Bump it together with every new migration pair.
const Version = 1
