// Package stdprocessors ships a handful of ready-made types.Processor
// implementations: small arithmetic blocks useful as pipeline-building
// blocks and test fixtures, and Expr, which evaluates an expr-lang
// expression against its positional inputs. None of this is part of the
// core engine — it is an ordinary consumer of the Processor contract,
// exactly like any external processor a caller would supply.
package stdprocessors
