package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/mdouchement/pxlpeep/folder"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func lsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls FILE",
		Short: "List the images of the folder of FILE in browsing order",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			n := folder.NewNavigator(folder.WithLogger(slog.Default()))
			if err := n.Sync(args[0]); err != nil {
				return err
			}

			for i, name := range n.Files() {
				marker := " "
				if i == n.Pos() {
					marker = ">"
				}
				fmt.Printf("%s %s\n", marker, name)
			}
			if prev, ok := n.Prev(); ok {
				fmt.Println("prev:", prev)
			}
			if next, ok := n.Next(); ok {
				fmt.Println("next:", next)
			}
			return nil
		},
	}
}

func trashCommand() *cobra.Command {
	var purge bool

	c := &cobra.Command{
		Use:   "trash FILE...",
		Short: "Move files to the trash folder next to them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			opt := folder.WithLogger(slog.Default())

			var trashed []string
			for _, path := range args {
				dst, err := folder.Trash(path, opt)
				if err != nil {
					return err
				}
				trashed = append(trashed, dst)
			}

			fmt.Printf("%d file(s) in temporary trash\n", len(trashed))
			if purge {
				return folder.Purge(trashed, opt)
			}
			return nil
		},
	}
	c.Flags().BoolVar(&purge, "purge", false, "Delete the trashed files permanently")

	return c
}

func bucketCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bucket N FILE...",
		Short: "Copy files into the bucket folder N (0-9) next to them",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.Wrapf(folder.ErrInvalidBucket, "%q", args[0])
			}

			for _, path := range args[1:] {
				if _, err := folder.CopyToBucket(path, n, folder.WithLogger(slog.Default())); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
