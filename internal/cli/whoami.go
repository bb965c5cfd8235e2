package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/taskledger/internal/authz"
	"github.com/mrz1836/taskledger/internal/errors"
)

// whoamiResult is the payload of the whoami command.
type whoamiResult struct {
	Role        string             `json:"role"`
	Permissions []authz.Permission `json:"permissions"`
}

// AddWhoamiCommand adds the whoami command to the root command.
func AddWhoamiCommand(root *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the resolved role and its permissions",
		Long: `Resolve the --role label and list the permissions it grants.

Labels are matched case-insensitively and both ASCII and Cyrillic forms are
accepted (jurist/юрист, expert/эксперт, moderator/модератор,
admin/администратор). An unrecognized label resolves to no role and no
permissions.

Examples:
  taskledger whoami --role jurist
  taskledger whoami --role Эксперт --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWhoami(cmd.OutOrStdout(), flags)
		},
	}

	root.AddCommand(cmd)
}

func runWhoami(w io.Writer, flags *GlobalFlags) error {
	role, ok := authz.Resolve(flags.Role)
	if !ok {
		return errors.Wrapf(errors.ErrUnknownRole, "%q", flags.Role)
	}

	result := whoamiResult{
		Role:        role.String(),
		Permissions: rolePermissionList(role),
	}

	if flags.Output == OutputJSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to encode result")
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}

	if _, err := fmt.Fprintf(w, "role: %s\npermissions:\n", result.Role); err != nil {
		return err
	}
	for _, p := range result.Permissions {
		if _, err := fmt.Fprintf(w, "  - %s\n", p); err != nil {
			return err
		}
	}
	return nil
}

// rolePermissionList returns the permissions to display for a role. Admin
// holds every permission by construction, so the full set is shown.
func rolePermissionList(role authz.Role) []authz.Permission {
	if role == authz.RoleAdmin {
		return authz.AllPermissions()
	}
	return authz.Permissions(role)
}
