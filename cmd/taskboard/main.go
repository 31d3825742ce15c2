package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/kazz187/taskboard/internal/apiclient"
	"github.com/kazz187/taskboard/internal/config"
	"github.com/kazz187/taskboard/internal/task"
	"github.com/kazz187/taskboard/internal/taskstore"
	"github.com/kazz187/taskboard/internal/view"
	"github.com/kazz187/taskboard/pkg/clog"
	"github.com/kazz187/taskboard/pkg/color"
)

var (
	app = kingpin.New("taskboard", "Terminal client for the task board API")

	serverURL = app.Flag("server", "Task API base URL (default $TASKBOARD_SERVER_URL or http://localhost:8080)").String()
	output    = app.Flag("output", "Output format").Short('o').Default(string(view.FormatTable)).Enum(view.Formats...)
	logLevel  = app.Flag("log-level", "Log level: debug, info, warn or error").String()
	timeout   = app.Flag("timeout", "Request timeout").Duration()
	noColor   = app.Flag("no-color", "Disable colored output").Bool()

	// Task commands
	listCmd          = app.Command("list", "List tasks").Default()
	listStatus       = listCmd.Flag("status", "Server-side status filter").String()
	listPriority     = listCmd.Flag("priority", "Server-side priority filter").String()
	listPage         = listCmd.Flag("page", "Page number, starting at 0").Int()
	listSize         = listCmd.Flag("size", "Page size").Int()
	listSearch       = listCmd.Flag("search", "Only tasks whose title or description contains this text").String()
	listOnlyStatus   = listCmd.Flag("only-status", "Only tasks with this status (ALL for any)").Default(task.All).String()
	listOnlyPriority = listCmd.Flag("only-priority", "Only tasks with this priority (ALL for any)").Default(task.All).String()

	showCmd = app.Command("show", "Show task details")
	showID  = showCmd.Arg("id", "Task ID").Required().String()

	createCmd   = app.Command("create", "Create a new task")
	createTitle = createCmd.Arg("title", "Task title").Required().String()
	createFlags = registerTaskFlags(createCmd, false)

	editCmd   = app.Command("edit", "Update fields of a task")
	editID    = editCmd.Arg("id", "Task ID").Required().String()
	editFlags = registerTaskFlags(editCmd, true)

	statusCmd   = app.Command("status", "Change the status of a task")
	statusID    = statusCmd.Arg("id", "Task ID").Required().String()
	statusValue = statusCmd.Arg("status", "New status: TODO, IN_PROGRESS or DONE").Required().String()

	doneCmd = app.Command("done", "Mark tasks as DONE")
	doneIDs = doneCmd.Arg("ids", "Task IDs").Required().Strings()

	deleteCmd = app.Command("delete", "Delete tasks")
	deleteIDs = deleteCmd.Arg("ids", "Task IDs").Required().Strings()

	searchCmd     = app.Command("search", "Search tasks by keyword")
	searchKeyword = searchCmd.Arg("keyword", "Keyword matched against title and description").Required().String()

	// Views
	boardCmd = app.Command("board", "Show the kanban board")
	statsCmd = app.Command("stats", "Show task statistics")
)

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	env, err := config.LoadClientEnv()
	app.FatalIfError(err, "")
	if *serverURL != "" {
		env.ServerURL = *serverURL
	}
	if *logLevel != "" {
		env.LogLevel = *logLevel
	}
	if *timeout > 0 {
		env.Timeout = *timeout
	}

	colored := color.Supported() && !*noColor
	slog.SetDefault(slog.New(clog.NewAttributesHandler(
		clog.NewHTTPTextHandler(os.Stderr, clog.WithLevel(env.SlogLevel()), clog.WithColor(colored)),
	)))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	format, err := view.ParseFormat(*output)
	app.FatalIfError(err, "")
	c := &cli{
		store: taskstore.New(apiclient.NewTaskClient(env.ServerURL, apiclient.WithTimeout(env.Timeout))),
		out:   view.New(os.Stdout, format, view.WithColor(colored)),
		now:   time.Now,
	}

	switch command {
	case listCmd.FullCommand():
		err = c.list(ctx, listOptions{
			status:       *listStatus,
			priority:     *listPriority,
			page:         *listPage,
			size:         *listSize,
			search:       *listSearch,
			onlyStatus:   *listOnlyStatus,
			onlyPriority: *listOnlyPriority,
		})
	case showCmd.FullCommand():
		err = c.show(ctx, task.ID(*showID))
	case createCmd.FullCommand():
		err = c.create(ctx, *createTitle, createFlags)
	case editCmd.FullCommand():
		err = c.edit(ctx, task.ID(*editID), editFlags)
	case statusCmd.FullCommand():
		err = c.setStatus(ctx, task.ID(*statusID), *statusValue)
	case doneCmd.FullCommand():
		err = c.done(ctx, toIDs(*doneIDs))
	case deleteCmd.FullCommand():
		err = c.delete(ctx, toIDs(*deleteIDs))
	case searchCmd.FullCommand():
		err = c.search(ctx, *searchKeyword)
	case boardCmd.FullCommand():
		err = c.board(ctx)
	case statsCmd.FullCommand():
		err = c.stats(ctx)
	}
	app.FatalIfError(err, "")
}

func toIDs(ss []string) []task.ID {
	ids := make([]task.ID, len(ss))
	for i, s := range ss {
		ids[i] = task.ID(s)
	}
	return ids
}
