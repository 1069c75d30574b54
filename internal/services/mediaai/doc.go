// Package mediaai talks to the AI media backend that performs the heavy
// lifting for pipelines: script writing, voice synthesis, caption and
// subtitle transcription, frame extraction, scene analysis, and final
// render. One client satisfies every generation and segmentation
// collaborator interface.
package mediaai
