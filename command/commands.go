package command

// Definition describes a command users can send.
type Definition struct {
	Name        string
	Description string
	// ReviewerOnly commands are hidden from help and refused to others.
	ReviewerOnly bool
}

var (
	StartCommand       = Definition{Name: "start", Description: "greeting"}
	HelpCommand        = Definition{Name: "help", Description: "list of commands"}
	PostCommand        = Definition{Name: "post", Description: "submit a post"}
	CancelCommand      = Definition{Name: "cancel", Description: "cancel the current submission"}
	IDCommand          = Definition{Name: "id", Description: "show your user ID"}
	FumoCommand        = Definition{Name: "fumo", Description: "fumofy a message ᗜˬᗜ"}
	SubmissionsCommand = Definition{Name: "submissions", Description: "latest submissions", ReviewerOnly: true}
)

// AllCommands contains all of the commands.
var AllCommands = []Definition{
	StartCommand,
	HelpCommand,
	PostCommand,
	CancelCommand,
	IDCommand,
	FumoCommand,
	SubmissionsCommand,
}

// Public returns the commands shown to every user.
func Public() []Definition {
	var defs []Definition
	for _, d := range AllCommands {
		if !d.ReviewerOnly {
			defs = append(defs, d)
		}
	}
	return defs
}
