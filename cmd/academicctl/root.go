package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stemsi/academic-backend/pkg/client"
	"github.com/stemsi/academic-backend/pkg/model"
)

const (
	cfgKeyServer  = "server"
	cfgKeyTimeout = "timeout"
	cfgKeyJSON    = "json"

	defaultServer = "http://localhost:8080/api/v1"
)

// app carries the resolved configuration shared by every subcommand.
type app struct {
	v      *viper.Viper
	client *client.Client
}

// api returns the REST client, created on first use from the resolved
// server URL.
func (a *app) api() *client.Client {
	if a.client == nil {
		a.client = client.New(a.v.GetString(cfgKeyServer), client.WithTimeout(a.timeout()))
	}
	return a.client
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	a.v.SetEnvPrefix("ACADEMIC")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	a.v.SetDefault(cfgKeyServer, defaultServer)
	a.v.SetDefault(cfgKeyTimeout, client.DefaultTimeout)

	root := &cobra.Command{
		Use:   "academicctl",
		Short: "Manage terms, sections, instructors, courses, classrooms and students",
		Long: `academicctl talks to the academic REST API.

The server URL is taken from --server or the ACADEMIC_SERVER environment
variable.

Example:
  academicctl term list
  academicctl student create "Ada Lovelace" --email ada@example.edu
  academicctl testrun purge <uuid>`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String(cfgKeyServer, defaultServer, "API base URL")
	flags.Duration(cfgKeyTimeout, client.DefaultTimeout, "HTTP timeout")
	flags.Bool(cfgKeyJSON, false, "output as JSON")
	_ = a.v.BindPFlags(flags)

	root.AddCommand(
		newKindCmd(a, model.TermKind, func(c *client.Client) *client.Resource[*model.Term] { return c.Terms }),
		newKindCmd(a, model.SectionKind, func(c *client.Client) *client.Resource[*model.Section] { return c.Sections }),
		newKindCmd(a, model.InstructorKind, func(c *client.Client) *client.Resource[*model.Instructor] { return c.Instructors }),
		newKindCmd(a, model.CourseKind, func(c *client.Client) *client.Resource[*model.Course] { return c.Courses }),
		newKindCmd(a, model.ClassroomKind, func(c *client.Client) *client.Resource[*model.Classroom] { return c.Classrooms }),
		newKindCmd(a, model.StudentKind, func(c *client.Client) *client.Resource[*model.Student] { return c.Students }),
		newTestRunCmd(a),
	)
	return root
}

func (a *app) timeout() time.Duration {
	return a.v.GetDuration(cfgKeyTimeout)
}
