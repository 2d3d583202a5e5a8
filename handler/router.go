package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"postbot/command"
	"postbot/model"
	"postbot/workflow"
)

// CommandHandler handles one named command.
type CommandHandler func(ctx context.Context, ev model.Event) error

// Router dispatches inbound events to the submission workflow and to the
// static command responder.
type Router struct {
	commands  map[string]CommandHandler
	workflow  *workflow.Controller
	responder *command.Responder
	log       *slog.Logger
}

func NewRouter(ctl *workflow.Controller, responder *command.Responder, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}
	r := &Router{
		commands:  make(map[string]CommandHandler),
		workflow:  ctl,
		responder: responder,
		log:       log,
	}

	r.AddCommandHandler(command.PostCommand.Name, ctl.Start)
	r.AddCommandHandler(command.CancelCommand.Name, ctl.Cancel)
	r.AddCommandHandler(command.StartCommand.Name, responder.Start)
	r.AddCommandHandler(command.HelpCommand.Name, responder.Help)
	r.AddCommandHandler(command.IDCommand.Name, responder.ID)
	r.AddCommandHandler(command.FumoCommand.Name, responder.Fumo)
	r.AddCommandHandler(command.SubmissionsCommand.Name, responder.Submissions)
	return r
}

// AddCommandHandler registers a handler for a command name.
func (r *Router) AddCommandHandler(name string, handler CommandHandler) {
	r.commands[strings.ToLower(name)] = handler
}

// Dispatch handles one event. Errors and panics are logged and never
// propagate: one failing conversation must not affect the others.
func (r *Router) Dispatch(ctx context.Context, ev model.Event) {
	log := r.log.With("submitter_id", ev.SubmitterID)

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("panic while handling event", "panic", fmt.Sprint(rec), "stack", string(debug.Stack()))
		}
	}()

	if err := r.route(ctx, ev); err != nil {
		log.Error("failed to handle event", "command", ev.Command, "error", err)
	}
}

func (r *Router) route(ctx context.Context, ev model.Event) error {
	if ev.IsCommand() {
		handler, ok := r.commands[strings.ToLower(ev.Command)]
		if !ok {
			return r.responder.Fallback(ctx, ev)
		}
		return handler(ctx, ev)
	}

	if !ev.IsContent() {
		return nil
	}

	err := r.workflow.HandleContent(ctx, ev)
	if errors.Is(err, workflow.ErrNoActiveConversation) {
		return r.responder.Fallback(ctx, ev)
	}
	return err
}
