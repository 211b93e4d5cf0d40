/*
Package conversation implements the flow controller of the festival events assistant.

The Controller owns the transcript, the active flow mode, the candidate cache and
the busy flag. Each user gesture has one entry point:

  - SelectCategory: start a search branch from the home menu.
  - SubmitText: send free text to the query service and branch on the result count.
  - AnswerYesNo: confirm whether to drill into a multi-result answer.
  - SelectEvent: look up the details of one offered candidate.
  - GoHome: reset everything. Always allowed.

Only one request may be outstanding at a time. Gestures that would issue a
second one fail with domain.ErrBusy. GoHome never waits for the outstanding
request; its response is dropped when it arrives.

# Usage

	ctrl := conversation.New(gateway)
	_ = ctrl.SelectCategory(ctx, domain.CategoryEvents)
	_ = ctrl.SubmitText(ctx, "Opening Ceremony")
	snap := ctrl.Snapshot()
*/
package conversation
