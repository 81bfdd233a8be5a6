package exec

// ExecuteGhWorkflowCmd writes the github workflow preset id, with its jobs and steps resolved, to output.
func (e *Env) ExecuteGhWorkflowCmd(id, output string) error {
	w, err := e.Config.Github.Lookup(id)
	if err != nil {
		return err
	}
	return e.write("github workflow", output, func() error {
		return w.Write(output, e.overwrite())
	})
}
