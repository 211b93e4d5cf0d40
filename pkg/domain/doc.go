/*
Package domain contains the core models of the festival events assistant.

It defines the entities shared by the conversation controller, the query
gateway and the catalog service. This package is kept pure and free of
external dependencies like I/O or persistence.

# Key Entities

  - Event: One festival event as returned by the query service.
  - Message: One turn of the conversation, with the affordances it offers.
  - Transcript: The append-only conversation history. Only the latest
    assistant entry has live affordances.
  - Mode: The active branch of the scripted dialogue.
  - Category: A top-level search mode the user can pick from the home menu.
*/
package domain
