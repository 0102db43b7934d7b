// Package observer implements the Observer pattern for pipeline build
// and run monitoring, letting library consumers track execution
// behavior without coupling to the pipeline's internals.
package observer
