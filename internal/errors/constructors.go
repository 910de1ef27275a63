package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *ClassifiedError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *ClassifiedError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Pipeline errors

func StageFailed(stage string, cause error) *ClassifiedError {
	return Wrap(cause, CategoryGenerate, SeverityFatal, "pipeline stage failed").
		WithContext("stage", stage)
}

func FileSystem(operation, path string, cause error) *ClassifiedError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "filesystem operation failed").
		WithContext("operation", operation).
		WithContext("path", path)
}

func ManifestParse(addon string, cause error) *ClassifiedError {
	return Wrap(cause, CategoryManifest, SeverityFatal, "addon manifest could not be parsed").
		WithContext("addon", addon)
}

func UnknownEntryType(key, kind string) *ClassifiedError {
	return New(CategoryGenerate, SeverityFatal, "unknown entry type").
		WithContext("key", key).
		WithContext("type", kind)
}

// Git errors

func GitClone(url string, cause error) *ClassifiedError {
	return Wrap(cause, CategoryGit, SeverityFatal, "upstream clone failed").
		WithContext("url", url)
}

func GitHead(path string, cause error) *ClassifiedError {
	return Wrap(cause, CategoryGit, SeverityFatal, "upstream HEAD could not be resolved").
		WithContext("path", path)
}

// Network errors

func Network(url string, cause error) *ClassifiedError {
	return Wrap(cause, CategoryNetwork, SeverityWarning, "network request failed").
		WithContext("url", url)
}

// Internal errors

func InternalError(message string, cause error) *ClassifiedError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
