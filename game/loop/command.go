package loop

import "github.com/wricardo/collect-game/game/engine"

// CommandKind identifies an input event
type CommandKind int

const (
	// CommandMove moves the player one cell; ignored unless playing
	CommandMove CommandKind = iota + 1
	// CommandRestart reloads the level; ignored unless the game has ended
	CommandRestart
	// CommandReset reloads the level in any state
	CommandReset
	// CommandQuit stops the loop
	CommandQuit
)

func (k CommandKind) String() string {
	switch k {
	case CommandMove:
		return "move"
	case CommandRestart:
		return "restart"
	case CommandReset:
		return "reset"
	case CommandQuit:
		return "quit"
	}
	return "unknown"
}

// Command is one discrete input event
type Command struct {
	Kind      CommandKind
	Direction engine.Direction
}

// Move returns a move command
func Move(dir engine.Direction) Command {
	return Command{Kind: CommandMove, Direction: dir}
}

// Restart returns a restart command
func Restart() Command {
	return Command{Kind: CommandRestart}
}

// Reset returns a reset command
func Reset() Command {
	return Command{Kind: CommandReset}
}

// Quit returns a quit command
func Quit() Command {
	return Command{Kind: CommandQuit}
}

// Result reports what a command did
type Result struct {
	Command  Command
	Applied  bool
	Move     *engine.MoveOutcome
	Snapshot engine.Snapshot
	// Notice is the view notice right after the command, see View.Notice
	Notice string
}
