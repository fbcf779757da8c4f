package testsupport

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/temirov/gitupstream/internal/execshell"
)

const (
	scriptKeySeparatorConstant        = " :: "
	argumentSeparatorConstant         = " "
	unscriptedCommandExitCodeConstant = 128
	unscriptedCommandTemplateConstant = "fatal: unscripted command %q"
)

// ScriptedResponse is the canned outcome of one git invocation.
// A non-zero ExitCode surfaces as execshell.CommandFailedError, Error as execshell.CommandExecutionError.
type ScriptedResponse struct {
	Output   string
	Stderr   string
	ExitCode int
	Error    error
}

// ScriptKey builds the lookup key for a git invocation in workingDirectory.
func ScriptKey(workingDirectory string, arguments ...string) string {
	return workingDirectory + scriptKeySeparatorConstant + strings.Join(arguments, argumentSeparatorConstant)
}

// ScriptedGitExecutor answers git invocations from a script keyed by working directory and arguments.
// Invocations missing from the script fail with exit code 128, like git rejecting an unknown reference.
type ScriptedGitExecutor struct {
	Responses map[string]ScriptedResponse

	mutex            sync.Mutex
	executedCommands []execshell.CommandDetails
}

// NewScriptedGitExecutor constructs an executor with an empty script.
func NewScriptedGitExecutor() *ScriptedGitExecutor {
	return &ScriptedGitExecutor{Responses: map[string]ScriptedResponse{}}
}

// On registers the response for git arguments run in workingDirectory and returns the executor for chaining.
func (executor *ScriptedGitExecutor) On(workingDirectory string, response ScriptedResponse, arguments ...string) *ScriptedGitExecutor {
	executor.mutex.Lock()
	defer executor.mutex.Unlock()
	executor.Responses[ScriptKey(workingDirectory, arguments...)] = response
	return executor
}

// ExecuteGit records the invocation and returns the scripted outcome.
func (executor *ScriptedGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.mutex.Lock()
	executor.executedCommands = append(executor.executedCommands, details)
	scriptKey := ScriptKey(details.WorkingDirectory, details.Arguments...)
	response, scripted := executor.Responses[scriptKey]
	executor.mutex.Unlock()

	command := execshell.ShellCommand{Name: execshell.CommandGit, Details: details}
	if !scripted {
		return execshell.ExecutionResult{}, execshell.CommandFailedError{
			Command: command,
			Result: execshell.ExecutionResult{
				StandardError: fmt.Sprintf(unscriptedCommandTemplateConstant, strings.Join(details.Arguments, argumentSeparatorConstant)),
				ExitCode:      unscriptedCommandExitCodeConstant,
			},
		}
	}
	if response.Error != nil {
		return execshell.ExecutionResult{}, execshell.CommandExecutionError{Command: command, Cause: response.Error}
	}
	executionResult := execshell.ExecutionResult{StandardOutput: response.Output, StandardError: response.Stderr, ExitCode: response.ExitCode}
	if response.ExitCode != 0 {
		return execshell.ExecutionResult{}, execshell.CommandFailedError{Command: command, Result: executionResult}
	}
	return executionResult, nil
}

// ExecutedCommands returns a copy of every recorded invocation in call order.
func (executor *ScriptedGitExecutor) ExecutedCommands() []execshell.CommandDetails {
	executor.mutex.Lock()
	defer executor.mutex.Unlock()
	return append([]execshell.CommandDetails{}, executor.executedCommands...)
}

// ExecutedArguments returns the space-joined argument list of every recorded invocation.
func (executor *ScriptedGitExecutor) ExecutedArguments() []string {
	executedCommands := executor.ExecutedCommands()
	joinedArguments := make([]string, 0, len(executedCommands))
	for _, details := range executedCommands {
		joinedArguments = append(joinedArguments, strings.Join(details.Arguments, argumentSeparatorConstant))
	}
	return joinedArguments
}

// SubmoduleDiscovererStub implements submodule discovery for tests.
type SubmoduleDiscovererStub struct {
	Submodules     []string
	DiscoveryError error
	ReceivedRoots  []string
}

// DiscoverSubmodules records the requested root and returns the configured submodules.
func (discoverer *SubmoduleDiscovererStub) DiscoverSubmodules(repositoryPath string) ([]string, error) {
	discoverer.ReceivedRoots = append(discoverer.ReceivedRoots, repositoryPath)
	if discoverer.DiscoveryError != nil {
		return nil, discoverer.DiscoveryError
	}
	return append([]string{}, discoverer.Submodules...), nil
}
