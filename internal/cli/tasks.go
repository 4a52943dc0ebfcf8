package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var tasksLimit int

var tasksCmd = &cobra.Command{
	Use:   "tasks [task-id]",
	Short: "List or inspect tasks",
	Long: `List recorded tasks or inspect a specific task by ID.

Examples:
  styleforge tasks           # List recent tasks
  styleforge tasks abc123    # Show details for task abc123`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTasks,
}

func init() {
	tasksCmd.Flags().IntVarP(&tasksLimit, "limit", "n", 50, "max results")
}

func runTasks(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if len(args) == 1 {
		return showTask(ctx, args[0])
	}

	return listTasks(ctx)
}

func listTasks(ctx context.Context) error {
	tasks, err := dbClient.QueryListTasks(ctx, tasksLimit)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	fmt.Printf("%-10s %-12s %-10s %-10s %s\n", "ID", "KIND", "STATE", "CREATED", "RESULT")
	fmt.Println("------------------------------------------------------------------------")

	for _, t := range tasks {
		result := ""
		if t.ResultRef != nil {
			result = *t.ResultRef
		}
		fmt.Printf("%-10s %-12s %-10s %-10s %s\n",
			t.ID, t.Kind, t.State, t.CreatedAt.Local().Format("15:04:05"), result)
	}

	return nil
}

func showTask(ctx context.Context, id string) error {
	task, err := dbClient.QueryGetTask(ctx, id)
	if err != nil {
		return fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return fmt.Errorf("task not found: %s", id)
	}

	fmt.Printf("Task: %s\n", task.ID)
	fmt.Printf("  Kind: %s\n", task.Kind)
	fmt.Printf("  State: %s\n", task.State)
	fmt.Printf("  Created: %s\n", task.CreatedAt.Format(time.RFC3339))
	fmt.Printf("  Updated: %s\n", task.UpdatedAt.Format(time.RFC3339))
	if task.State.Terminal() {
		fmt.Printf("  Duration: %s\n", task.UpdatedAt.Sub(task.CreatedAt).Round(time.Second))
	}

	if task.ResultRef != nil {
		fmt.Printf("  Result: %s\n", *task.ResultRef)
	}
	if task.Error != nil {
		fmt.Printf("  Error: [%s] %s\n", task.Error.Kind, task.Error.Message)
	}

	return nil
}
