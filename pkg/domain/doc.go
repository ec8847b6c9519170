/*
Package domain defines the core vocabulary of the control-point protocol:
trace and site identifiers, sampled messages, lineage pair records, and the
error taxonomy shared by every layer.

It has no dependencies on adapters or the protocol logic itself; every other
package in the module speaks in these types.
*/
package domain
