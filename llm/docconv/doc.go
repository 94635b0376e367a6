// Copyright (c) LLMBridge Authors.
// Licensed under the MIT License.

/*
包 docconv 提供附件转纯文本的抽取协作方，仅服务于被分类为
"文本抽取"的附件（Word 文档与其他非图片/非 PDF 类型）。

# 核心接口

  - [Extractor] — ExtractText(bytes) → string
  - [ForAttachment] — 按 MIME/文件名分发到具体抽取器

# 支持格式

  - PDF（github.com/ledongthuc/pdf）
  - DOCX（OOXML word/document.xml 解包）
  - text/* 与 application/json 直接按 UTF-8 文本透传

旧版二进制 .doc 显式拒绝：宁可大声失败，也不把乱码当文本发给模型。
*/
package docconv
