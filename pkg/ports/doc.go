/*
Package ports defines the interfaces between the protocol core and its
external collaborators: the coordination store used for cross-branch
rendezvous, the forker that spawns independent branches, and the trace
capability surface consumed from the executing program.

Adapters live under pkg/adapters; the contract suite in this package lets
every CoordStore implementation prove it honors the same semantics.
*/
package ports
