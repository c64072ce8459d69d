// Command painel serves the project-status dashboard and exports its data.
package main

func main() {
	Execute()
}
