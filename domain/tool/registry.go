package tool

// Registry holds the tools served to clients. Implementations live in
// infrastructure and must be safe for concurrent use.
type Registry interface {
	// Register adds a tool. Registering a second tool with the same name
	// returns ErrToolExists.
	Register(tool Tool) error

	// Get retrieves a tool by name.
	Get(name string) (Tool, bool)

	// List returns all registered tools ordered by name.
	List() []Tool

	// Names returns all registered tool names in order.
	Names() []string
}
