// Command fermata downloads single tracks through a descending quality
// cascade, enforces a deliverable size budget, and assembles tagged,
// canonically named files into the output directory.
package main
