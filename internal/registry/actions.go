package registry

import (
	"context"
	"fmt"
	"strings"
)

// Write actions fail hard: unlike the read queries, a non-zero exit here
// means the mutation did not complete and must surface to the caller.

// run executes an npm write action and folds stderr into the error.
func (c *Client) run(ctx context.Context, args ...string) error {
	c.debug("running npm action", "command", "npm "+strings.Join(args, " "))

	res, err := c.Runner.Run(ctx, "npm", args...)
	if err != nil {
		return fmt.Errorf("npm %s failed: %w", strings.Join(args, " "), err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("npm %s failed with exit code %d: %s",
			strings.Join(args, " "), res.ExitCode, strings.TrimSpace(string(res.Stderr)))
	}
	return nil
}

// Uninstall removes the named packages in one npm invocation.
func (c *Client) Uninstall(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	return c.run(ctx, append([]string{"uninstall"}, names...)...)
}

// UpdateAll runs npm's bulk update.
func (c *Client) UpdateAll(ctx context.Context) error {
	return c.run(ctx, "update")
}

// AuditFix applies npm's automated vulnerability remediation.
func (c *Client) AuditFix(ctx context.Context) error {
	return c.run(ctx, "audit", "fix")
}

// Dedupe collapses duplicated packages in the installed tree.
func (c *Client) Dedupe(ctx context.Context) error {
	return c.run(ctx, "dedupe")
}

// OutdatedPassthrough returns npm's native human-readable outdated listing.
// Exit code 1 (outdated packages exist) is not an error.
func (c *Client) OutdatedPassthrough(ctx context.Context) (string, error) {
	res, err := c.Runner.Run(ctx, "npm", "outdated")
	if err != nil {
		return "", fmt.Errorf("npm outdated failed: %w", err)
	}
	if res.ExitCode > 1 {
		return "", fmt.Errorf("npm outdated failed with exit code %d: %s",
			res.ExitCode, strings.TrimSpace(string(res.Stderr)))
	}
	return string(res.Stdout), nil
}
