package detector

// Detect exposes the environment-free detection for tests.
var Detect = detect
