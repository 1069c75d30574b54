// Package segmentation turns an uploaded clip into scene segments with
// per-segment subtitles.
//
// The sampling planner is a pure function choosing which timestamps to pull
// frames from; frame extraction, scene analysis, and transcription are
// external collaborators. Subtitle generation tolerates per-segment failure:
// one bad segment is logged and skipped, while a failure in sampling or
// scene analysis fails the whole job.
package segmentation
