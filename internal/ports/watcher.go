package ports

// Watcher monitors the game data and curated directories and triggers a
// rebuild. The adapter (fsnotify) must filter out files the build does not
// read (editor swap files, dotfiles) before invoking onChange. Several roots
// may be watched at once.
type Watcher interface {
	// Watch starts monitoring root recursively. onChange is called with the
	// path of each changed source file. The callback may be invoked from any
	// goroutine. Returns an error if the directory doesn't exist or
	// permissions are insufficient.
	Watch(root string, onChange func(path string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
