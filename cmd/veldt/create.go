package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/veldt-dev/veldt/internal/errors"
	"github.com/veldt-dev/veldt/internal/templates"
)

func createCmd() *cobra.Command {
	var (
		templateName string
		modulePath   string
		description  string
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new project",
		Long: `Create a new project with the specified name.

Templates:
  default   Starter with a counter page and a server function
  minimal   Just the worker and an empty page

Examples:
  veldt create my-app
  veldt create my-app --template=minimal
  veldt create my-app --module=github.com/me/my-app`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(args[0], templateName, modulePath, description)
		},
	}

	cmd.Flags().StringVarP(&templateName, "template", "t", "default", "Project template (default, minimal)")
	cmd.Flags().StringVarP(&modulePath, "module", "m", "", "Go module path (default: project name)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Project description")

	return cmd
}

var projectNameRe = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

func runCreate(name, templateName, modulePath, description string) error {
	printBanner()
	fmt.Println("  Creating a new project...")
	fmt.Println()

	if !projectNameRe.MatchString(name) {
		return errors.New("E201").
			WithSuggestion("Use lowercase letters, digits, and hyphens, starting with a letter")
	}

	projectDir, err := filepath.Abs(name)
	if err != nil {
		return err
	}
	if _, err := os.Stat(projectDir); !os.IsNotExist(err) {
		return errors.New("E200").
			WithDetail("Directory '" + name + "' already exists").
			WithSuggestion("Choose a different name or remove the existing directory")
	}

	if modulePath == "" {
		modulePath = name
	}
	if description == "" {
		description = "A veldt web application"
	}

	tmpl, err := templates.Get(templateName)
	if err != nil {
		return err
	}

	info("Creating project from '%s' template...", templateName)
	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		return err
	}
	if err := tmpl.Create(projectDir, templates.Config{
		ProjectName: name,
		ModulePath:  modulePath,
		Description: description,
	}); err != nil {
		os.RemoveAll(projectDir)
		return err
	}

	info("Initializing Go module...")
	if err := runGo(projectDir, "mod", "init", modulePath); err != nil {
		return err
	}
	info("Installing dependencies...")
	if err := runGo(projectDir, "mod", "tidy"); err != nil {
		warn("Could not run 'go mod tidy': %v", err)
	}

	fmt.Println()
	success("Created %s/", name)
	fmt.Println()
	fmt.Println("  Next steps:")
	fmt.Printf("    cd %s\n", name)
	fmt.Println("    veldt dev")
	fmt.Println()
	return nil
}

func runGo(dir string, args ...string) error {
	cmd := exec.Command("go", args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go %s: %v: %s", args[0], err, stderr.String())
	}
	return nil
}
