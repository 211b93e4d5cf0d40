/*
Package runner drives a chat conversation from a terminal or a line-based pipe.

It is the bridge between the conversation controller and the outside world.
The runner renders new transcript entries through a pluggable IOHandler, maps
typed lines onto controller gestures and stops on EOF, "exit" or context
cancellation.

# Key Components

  - Runner: the read-eval loop over a *conversation.Controller.
  - IOHandler: decouples presentation (text or JSON lines) from the loop.
  - TextHandler: the interactive terminal implementation.
  - JSONHandler: one JSON object per transcript entry, for scripted clients.
  - Sanitizer: size, UTF-8 and control-character guard shared with the servers.
    Its limit comes from the max_input_bytes config setting.

Global commands are lifecycle events. "exit" and "quit" map to a
lifecycle.ShutdownEvent and "home" and "back" to a lifecycle.InputEvent.
WithInputMappings adds or replaces words.

# Usage

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout,
			runner.WithTextHandlerRenderer(renderer))),
		runner.WithLogger(logger),
	)

	if err := r.Run(ctx, controller); err != nil {
		log.Fatal(err)
	}
*/
package runner
