// Package app wires configuration, the component graph, the entity
// registry and the scheduler into a runnable application instance.
package app
