/*
Package festbot is a scripted chat assistant for finding festival events.

A conversation starts on a home menu of search categories (event, location,
date). Free text is sent to a query service; one result is shown in full,
several results are summarized and can be explored one by one, and no result
invites another search. Every branch can return home.

# Layout

  - pkg/conversation: the conversation state machine.
  - pkg/catalog: the query service core (search planning, sync).
  - pkg/adapters: HTTP client and server, Redis and memory stores, Airtable
    and Loam catalog sources, MCP tools.
  - pkg/runner: the terminal chat loop.
  - cmd/festbot: the command line (chat, serve, sync, mcp).

# Usage

	chat := festbot.New("http://localhost:8080/api/query")

	r := runner.NewRunner(chat)
	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}

To query a catalog in-process instead of over HTTP, pass its gateway:

	svc := catalog.NewService(memory.NewStore(events...))
	chat := festbot.New("", festbot.WithGateway(svc.Gateway()))
*/
package festbot
