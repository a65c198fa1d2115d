package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/ImGajeed76/filehelper/pkg/filehelper"
	"github.com/ImGajeed76/filehelper/pkg/filehelper/console"
)

const versionFile = "internal/version.go"

var (
	semverPattern  = regexp.MustCompile(`^v\d+\.\d+\.\d+(-[a-zA-Z0-9.]+)?$`)
	versionPattern = regexp.MustCompile(`^var Version = "(.*)"$`)
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	version := os.Args[1]
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	if !semverPattern.MatchString(version) {
		fail("Invalid version format. Use format: v1.0.0 or 1.0.0")
	}

	current, err := currentVersion()
	if err != nil {
		fail(fmt.Sprintf("Failed to read %s: %v", versionFile, err))
	}

	fmt.Println(console.Hint(fmt.Sprintf("This will update the version from %s to %s", current, version)))
	fmt.Println("  1. Update " + versionFile)
	fmt.Println("  2. Commit the change")
	fmt.Println("  3. Create git tag " + version)
	fmt.Println("  4. Push to remote")
	fmt.Println()

	if !confirm("Continue?") {
		fmt.Println(console.Hint("Aborted"))
		return
	}

	if hasUncommittedChanges() {
		fail("You have uncommitted changes. Please commit or stash them first.")
	}

	step("Updating version.go...", func() error { return updateVersionFile(version) })
	step("Committing changes...", func() error { return gitCommit(version) })
	step("Creating git tag...", func() error { return gitTag(version) })

	fmt.Println()
	if !confirm("Push to remote?") {
		fmt.Println(console.Hint("Skipped push. Don't forget to push manually:"))
		fmt.Printf("  git push origin HEAD\n")
		fmt.Printf("  git push origin %s\n", version)
		return
	}

	step("Pushing commit...", gitPush)
	step("Pushing tag...", func() error { return gitPushTag(version) })

	fmt.Println()
	fmt.Println(console.Success(fmt.Sprintf("Released %s", version)))
	fmt.Println(console.Hint(fmt.Sprintf("Users can now use: go get github.com/ImGajeed76/filehelper@%s", version)))
}

func printUsage() {
	fmt.Println("Usage: go run scripts/version/main.go <version>")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  go run scripts/version/main.go 1.0.0")
	fmt.Println("  go run scripts/version/main.go v2.1.3")
}

func fail(msg string) {
	fmt.Println(console.Error(msg))
	os.Exit(1)
}

func step(msg string, fn func() error) {
	fmt.Println(console.Hint(msg))
	if err := fn(); err != nil {
		fail(err.Error())
	}
	fmt.Println(console.Success("✓ " + strings.TrimSuffix(msg, "...")))
}

func currentVersion() (string, error) {
	h, err := filehelper.Open(versionFile)
	if err != nil {
		return "", err
	}
	defer h.Close()

	lines, err := h.ReadAllLines()
	if err != nil {
		return "", err
	}
	for _, line := range lines {
		if m := versionPattern.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			return m[1], nil
		}
	}
	return "", errors.New("no Version declaration found")
}

// updateVersionFile rewrites the Version declaration and keeps every other
// line. The file is Go source, so it is written with LF endings.
func updateVersionFile(version string) error {
	h, err := filehelper.Open(versionFile)
	if err != nil {
		return err
	}
	defer h.Close()

	lines, err := h.ReadAllLines()
	if err != nil {
		return err
	}

	replaced := false
	for i, line := range lines {
		if versionPattern.MatchString(strings.TrimSpace(line)) {
			lines[i] = fmt.Sprintf("var Version = %q", version)
			replaced = true
		}
	}
	if !replaced {
		lines = append(lines, "", fmt.Sprintf("var Version = %q", version))
	}

	_, err = h.Write(strings.Join(lines, "\n")+"\n", false)
	return err
}

func hasUncommittedChanges() bool {
	output, err := exec.Command("git", "status", "--porcelain").Output()
	if err != nil {
		return false
	}
	return len(strings.TrimSpace(string(output))) > 0
}

func gitCommit(version string) error {
	if err := runCommand("git", "add", versionFile); err != nil {
		return err
	}
	return runCommand("git", "commit", "-m", fmt.Sprintf("chore: bump version to %s", version))
}

func gitTag(version string) error {
	return runCommand("git", "tag", "-a", version, "-m", fmt.Sprintf("Release %s", version))
}

func gitPush() error {
	return runCommand("git", "push", "origin", "HEAD")
}

func gitPushTag(version string) error {
	return runCommand("git", "push", "origin", version)
}

func runCommand(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func confirm(question string) bool {
	ok, err := console.YesNo(console.YesNoOptions{
		Prompt:     question,
		DefaultYes: false,
		YesText:    "Yes",
		NoText:     "No",
	})
	return err == nil && ok
}
