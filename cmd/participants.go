/*
Copyright © 2025 Honoka Toda, Shinya Ishitobi

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vanstudio/sequence-cli/internal/calltree"
	"github.com/vanstudio/sequence-cli/internal/participant"
)

const defaultPackage = "<default>"

// participantsCmd represents the participants command
var participantsCmd = &cobra.Command{
	Use:   "participants FILE",
	Short: "List the participants of a call tree",
	Long: `List the lifelines a diagram of the call tree would declare, in declaration order.
Each line holds the first call sequence, the display name, the package, the attributes
and the methods invoked on the participant, separated by tabs.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := calltree.Load(args[0])
		if err != nil {
			return err
		}
		return writeParticipants(cmd.OutOrStdout(), participant.Collect(root).List())
	},
}

func init() {
	rootCmd.AddCommand(participantsCmd)
}

func writeParticipants(w io.Writer, participants []*participant.Participant) error {
	for _, p := range participants {
		pkg := p.PackageName()
		if pkg == "" {
			pkg = defaultPackage
		}
		attrs := "-"
		if len(p.Attributes) > 0 {
			attrs = strings.Join(p.Attributes, ",")
		}
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", p.Seq, p.Name, pkg, attrs, strings.Join(methodNames(p), ",")); err != nil {
			return err
		}
	}
	return nil
}

// methodNames returns the distinct method names of p in first call order.
func methodNames(p *participant.Participant) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range p.Methods() {
		if seen[m.Name] {
			continue
		}
		seen[m.Name] = true
		names = append(names, m.Name)
	}
	return names
}
