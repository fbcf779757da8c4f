package execshell

// CommandEventObserver receives lifecycle notifications for every command the executor runs.
type CommandEventObserver interface {
	// CommandStarted is called before the process starts.
	CommandStarted(command ShellCommand)
	// CommandCompleted is called once the process exited, whatever the exit code.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed is called when the process could not run at all.
	CommandExecutionFailed(command ShellCommand, failure error)
}

type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}
