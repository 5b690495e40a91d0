package common

// File permissions for files the tool writes
const (
	// FilePermissionSecure is used for the config file
	FilePermissionSecure = 0600

	// FilePermissionNormal is used for generated DDL and table dumps
	FilePermissionNormal = 0644

	// DirPermissionSecure is used for the config directory
	DirPermissionSecure = 0700

	// DirPermissionNormal is used for output directories
	DirPermissionNormal = 0755
)
