/*
Package ports defines the driven ports (interfaces) of the festival events assistant.

These interfaces decouple the conversation controller and the catalog service
from external implementations, allowing them to work with various transports
and storage backends.

# Key Interfaces

  - QueryGateway: Submits a flow identifier and free text to the query service.
  - EventStore: Persists the event catalog served by the query service.
  - RecordSource: Produces upstream event records to synchronize into the store.
  - DistributedLocker: Provides distributed locking so only one sync runs at a time.
*/
package ports
