// Package generation renders a short video from a text prompt: script,
// voice-over, captions, then the final render. Every step is an external
// collaborator call; the pipeline only sequences them and accumulates the
// intermediate artifacts.
package generation
