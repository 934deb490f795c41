package tests

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

const (
	integrationBinaryNameConstant = "repolens-integration"
	integrationBuildTimeout       = 120 * time.Second
)

func runIntegrationCommand(testInstance *testing.T, repositoryRoot string, pathVariable string, timeout time.Duration, arguments []string) string {
	executionContext, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	command := exec.CommandContext(executionContext, "go", arguments...)
	command.Dir = repositoryRoot
	environment := append([]string{}, os.Environ()...)
	if len(pathVariable) > 0 {
		environment = append(environment, "PATH="+pathVariable)
	}
	command.Env = environment

	outputBytes, runError := command.CombinedOutput()
	outputText := string(outputBytes)
	testInstance.Helper()
	requireNoError(testInstance, runError, outputText)
	return outputText
}

func buildIntegrationBinary(testInstance *testing.T, repositoryRoot string) string {
	testInstance.Helper()

	binaryPath := filepath.Join(testInstance.TempDir(), integrationBinaryNameConstant)

	executionContext, cancel := context.WithTimeout(context.Background(), integrationBuildTimeout)
	defer cancel()

	command := exec.CommandContext(executionContext, "go", "build", "-o", binaryPath, ".")
	command.Dir = repositoryRoot
	outputBytes, buildError := command.CombinedOutput()
	requireNoError(testInstance, buildError, string(outputBytes))
	return binaryPath
}

func runBinaryIntegrationCommand(testInstance *testing.T, binaryPath string, workingDirectory string, environmentOverrides map[string]string, timeout time.Duration, arguments []string) (string, error) {
	testInstance.Helper()

	executionContext, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	command := exec.CommandContext(executionContext, binaryPath, arguments...)
	command.Dir = workingDirectory
	environment := append([]string{}, os.Environ()...)
	for environmentName, environmentValue := range environmentOverrides {
		environment = append(environment, environmentName+"="+environmentValue)
	}
	command.Env = environment

	outputBytes, runError := command.CombinedOutput()
	return string(outputBytes), runError
}

func requireNoError(testInstance *testing.T, err error, output string) {
	testInstance.Helper()
	if err != nil {
		testInstance.Fatalf("command failed: %v\n%s", err, output)
	}
}
